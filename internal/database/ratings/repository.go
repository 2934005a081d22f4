// Package ratings provides database operations for star ratings.
//
// This package implements the RatingStore interface defined in internal/http/stores.go.
// A user holds at most one rating per book; resubmitting overwrites it.
package ratings

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/utils"
)

var ErrInvalidStars = errors.New("stars must be between 1 and 5")

// Repository handles all rating database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new ratings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertRating creates or replaces the user's rating for a book in a single statement.
func (r *Repository) UpsertRating(bookID, userID uint, stars int) error {
	if stars < entities.MinStars || stars > entities.MaxStars {
		return ErrInvalidStars
	}

	now := time.Now()
	rating := entities.Rating{
		BookID:    bookID,
		UserID:    userID,
		Stars:     stars,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.Omit("User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// GetUserRating returns the user's rating for a book, or nil when they have not rated it.
func (r *Repository) GetUserRating(bookID, userID uint) (*entities.Rating, error) {
	var rating entities.Rating
	err := r.db.Where("book_id = ? AND user_id = ?", bookID, userID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// AverageRating returns the mean star rating of a book rounded to one decimal,
// and the number of ratings. A book without ratings averages 0.
func (r *Repository) AverageRating(bookID uint) (float64, int64, error) {
	var result struct {
		Average *float64
		Count   int64
	}
	err := r.db.Model(&entities.Rating{}).
		Select("AVG(stars) AS average, COUNT(*) AS count").
		Where("book_id = ?", bookID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	if result.Count == 0 || result.Average == nil {
		return 0, 0, nil
	}
	return utils.RoundToTenth(*result.Average), result.Count, nil
}
