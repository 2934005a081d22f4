// Package books provides database operations for book management.
//
// This package implements the BookStore interface defined in internal/http/stores.go.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123)
package books

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAllBooks retrieves all books.
func (r *Repository) ListAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Owner").Order("id ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a book by its ID, returning ErrBookNotFound if absent.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Owner").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// CreateBook persists a new book. OwnerID may be nil for anonymous postings.
// PublishDate is stamped on save.
func (r *Repository) CreateBook(book *entities.Book) error {
	book.PublishDate = time.Now().UTC().Truncate(24 * time.Hour)
	if err := r.db.Omit("Owner").Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// DeleteBook removes a book together with its comments, ratings and favourites.
// The explicit deletes keep the cascade working even when the driver does not
// enforce foreign keys.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrBookNotFound
		}

		// Replies first so no comment is left pointing at a deleted parent
		if err := tx.Where("book_id = ? AND parent_id IS NOT NULL", id).Delete(&entities.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Rating{}).Error; err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favourites: %w", err)
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}

// ListBooksByOwner retrieves the books posted by a user.
func (r *Repository) ListBooksByOwner(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("owner_id = ?", userID).Order("id ASC").Find(&books).Error
	return books, err
}

// ListFavoritedBooks retrieves the books a user has marked as favourite.
func (r *Repository) ListFavoritedBooks(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Owner").
		Joins("JOIN favorites ON favorites.book_id = books.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, books.id ASC").
		Find(&books).Error
	return books, err
}

// SearchBooksByName performs a case-insensitive substring match on book names.
// A blank query returns no books rather than all of them. Any other query is
// matched as given, surrounding whitespace included.
func (r *Repository) SearchBooksByName(query string) ([]entities.Book, error) {
	if strings.TrimSpace(query) == "" {
		return []entities.Book{}, nil
	}

	var books []entities.Book
	searchPattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	err := r.db.Preload("Owner").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, searchPattern).
		Order("id ASC").
		Find(&books).Error
	return books, err
}
