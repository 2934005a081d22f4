package entities

import (
	"fmt"
	"time"
)

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index;size:200;not null" json:"name"`
	Web         string    `gorm:"size:300;not null" json:"web"`
	PriceCents  int64     `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
	PublishDate time.Time `json:"publish_date"`

	// PictureKey is the storage backend key, PictureURL the path pages link to.
	PictureKey string `gorm:"size:512" json:"-"`
	PictureURL string `gorm:"size:1024" json:"picture_url"`

	// OwnerID is nil for books posted anonymously.
	OwnerID *uint `gorm:"index" json:"owner_id,omitempty"`
	Owner   *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`

	Comments  []Comment  `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Ratings   []Rating   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price formats PriceCents as a two decimal string, e.g. "9.99".
func (b Book) Price() string {
	return fmt.Sprintf("%d.%02d", b.PriceCents/100, b.PriceCents%100)
}

// DisplayPath is the web-servable location of the book picture.
func (b Book) DisplayPath() string {
	return b.PictureURL
}

// IsOwnedBy reports whether userID owns the book. Anonymous books have no owner.
func (b Book) IsOwnedBy(userID uint) bool {
	return b.OwnerID != nil && *b.OwnerID == userID
}

type Comment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	BookID uint   `gorm:"index;not null" json:"book_id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Text   string `gorm:"type:text;not null" json:"text"`

	// ParentID is set for replies. Replies are only one level deep.
	ParentID *uint     `gorm:"index" json:"parent_id,omitempty"`
	Replies  []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

const (
	MinStars = 1
	MaxStars = 5
)

type Rating struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	BookID uint `gorm:"uniqueIndex:idx_ratings_book_user;not null" json:"book_id"`
	UserID uint `gorm:"uniqueIndex:idx_ratings_book_user;index;not null" json:"user_id"`
	Stars  int  `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Favorite struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	BookID uint `gorm:"uniqueIndex:idx_favorites_book_user;not null" json:"book_id"`
	UserID uint `gorm:"uniqueIndex:idx_favorites_book_user;index;not null" json:"user_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (Comment) TableName() string {
	return "comments"
}

func (Rating) TableName() string {
	return "ratings"
}

func (Favorite) TableName() string {
	return "favorites"
}
