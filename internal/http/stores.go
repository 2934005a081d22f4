package http

import (
	"context"
	"io"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/storage"
)

// Each controller depends on the narrow slice of persistence it uses.
// The gorm repositories under internal/database satisfy all of them.

// BookGetter provides read access to a single book.
type BookGetter interface {
	GetBookByID(id uint) (*entities.Book, error)
}

// BookStore covers listing, posting and deleting books.
type BookStore interface {
	BookGetter
	ListAllBooks() ([]entities.Book, error)
	CreateBook(book *entities.Book) error
	DeleteBook(id uint) error
	ListBooksByOwner(userID uint) ([]entities.Book, error)
	ListFavoritedBooks(userID uint) ([]entities.Book, error)
	SearchBooksByName(query string) ([]entities.Book, error)
}

// CommentStore reads and writes book comments.
type CommentStore interface {
	ListTopLevelComments(bookID uint) ([]entities.Comment, error)
	CreateComment(bookID, userID uint, text string, parentID *uint) (*entities.Comment, error)
}

// RatingStore records star ratings.
type RatingStore interface {
	UpsertRating(bookID, userID uint, stars int) error
	GetUserRating(bookID, userID uint) (*entities.Rating, error)
	AverageRating(bookID uint) (float64, int64, error)
}

// FavoriteStore toggles favorites.
type FavoriteStore interface {
	ToggleFavorite(bookID, userID uint) (bool, error)
	IsFavorited(bookID, userID uint) (bool, error)
}

// MenuStore lists the navigation menu.
type MenuStore interface {
	ListMenu() ([]entities.MainMenu, error)
}

// PictureStore persists uploaded book pictures.
type PictureStore interface {
	Save(ctx context.Context, filename string, content io.Reader, contentType string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
	Check(ctx context.Context) error
}

// AuditLogger records book lifecycle events.
type AuditLogger interface {
	LogCreate(userID *uint, entityType string, entityID uint, entityName, ipAddr string)
	LogDelete(userID *uint, entityType string, entityID uint, entityName, ipAddr string, err error)
}

// Pinger reports database connectivity.
type Pinger interface {
	Ping() error
}
