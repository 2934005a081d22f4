// Package favourites provides database operations for favourite books.
//
// This package implements the FavouriteStore interface defined in internal/http/stores.go.
//
// # Usage
//
//	repo := favourites.NewRepository(db)
//	favorited, err := repo.ToggleFavorite(bookID, userID)
package favourites

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all favourites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ToggleFavorite flips the favourite state of a book for a user and reports
// the resulting state. Concurrent toggles never surface a uniqueness error.
func (r *Repository) ToggleFavorite(bookID, userID uint) (bool, error) {
	favorited := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		fav := entities.Favorite{BookID: bookID, UserID: userID, CreatedAt: time.Now()}
		res := tx.Omit("User").Clauses(clause.OnConflict{DoNothing: true}).Create(&fav)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = true
			return nil
		}
		return tx.Where("book_id = ? AND user_id = ?", bookID, userID).
			Delete(&entities.Favorite{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle favourite: %w", err)
	}
	return favorited, nil
}

// IsFavorited reports whether the user has marked the book as favourite.
func (r *Repository) IsFavorited(bookID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Count(&count).Error
	return count > 0, err
}
