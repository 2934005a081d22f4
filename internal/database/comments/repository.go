// Package comments provides database operations for book comments and replies.
//
// This package implements the CommentStore interface defined in internal/http/stores.go.
// Replies are one level deep: replying to a reply attaches the new comment to
// the top-level ancestor instead.
package comments

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var ErrParentNotFound = errors.New("parent comment not found")

// Repository handles all comment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new comments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListTopLevelComments returns the comments of a book that are not replies,
// newest first, with their authors and replies (oldest first) preloaded.
func (r *Repository) ListTopLevelComments(bookID uint) ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.User").
		Where("book_id = ? AND parent_id IS NULL", bookID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

// ListReplies returns the replies of a comment, oldest first.
func (r *Repository) ListReplies(commentID uint) ([]entities.Comment, error) {
	var replies []entities.Comment
	err := r.db.Preload("User").
		Where("parent_id = ?", commentID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

// CreateComment stores a comment on a book. When parentID is set the parent
// must belong to the same book, otherwise ErrParentNotFound is returned.
func (r *Repository) CreateComment(bookID, userID uint, text string, parentID *uint) (*entities.Comment, error) {
	comment := &entities.Comment{
		BookID: bookID,
		UserID: userID,
		Text:   text,
	}

	if parentID != nil {
		var parent entities.Comment
		err := r.db.Where("id = ? AND book_id = ?", *parentID, bookID).First(&parent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		rootID := parent.ID
		if parent.ParentID != nil {
			rootID = *parent.ParentID
		}
		comment.ParentID = &rootID
	}

	if err := r.db.Omit("User").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}
