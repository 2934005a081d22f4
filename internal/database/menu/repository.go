// Package menu provides read access to the seeded main menu.
package menu

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMenu returns all menu entries in insertion order.
func (r *Repository) ListMenu() ([]entities.MainMenu, error) {
	var items []entities.MainMenu
	err := r.db.Order("id ASC").Find(&items).Error
	return items, err
}
