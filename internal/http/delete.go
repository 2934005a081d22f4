package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// DeleteStore defines database operations for book deletion.
type DeleteStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	DeleteBook(id uint) error
}

type DeleteController struct {
	store        DeleteStore
	pictures     PictureStore
	auditService AuditLogger
}

func NewDeleteController(store DeleteStore, pictures PictureStore, auditService AuditLogger) *DeleteController {
	return &DeleteController{store: store, pictures: pictures, auditService: auditService}
}

// canDelete reports whether the current user may delete book. Owned books
// belong to their owner; anonymously posted books to any signed-in user.
func canDelete(c *gin.Context, book *entities.Book) bool {
	userID := auth.GetUserID(c)
	if userID == auth.AnonymousUserID {
		return false
	}
	return book.OwnerID == nil || book.IsOwnedBy(userID)
}

func (dc *DeleteController) loadBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return nil, false
	}

	book, err := dc.store.GetBookByID(id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "Book")
		return nil, false
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return nil, false
	}
	return book, true
}

// Confirm asks before deleting.
// GET /books/:id/delete
func (dc *DeleteController) Confirm(c *gin.Context) {
	book, ok := dc.loadBook(c)
	if !ok {
		return
	}

	renderHTML(c, http.StatusOK, "book_delete_confirm.html", gin.H{
		"Title":     "Delete " + book.Name,
		"Book":      book,
		"CanDelete": canDelete(c, book),
	})
}

// Delete removes the book with its comments, ratings and favorites, then its picture.
// POST /books/:id/delete
func (dc *DeleteController) Delete(c *gin.Context) {
	book, ok := dc.loadBook(c)
	if !ok {
		return
	}

	if !canDelete(c, book) {
		respondForbidden(c, "Only the user who posted this book can delete it.")
		return
	}

	if c.PostForm("confirm") != "yes" {
		redirectSeeOther(c, bookPath(book.ID))
		return
	}

	userID := auth.CurrentUserID(c)
	err := dc.store.DeleteBook(book.ID)
	if dc.auditService != nil {
		dc.auditService.LogDelete(userID, audit.EntityBook, book.ID, book.Name, c.ClientIP(), err)
	}
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "Book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	if book.PictureKey != "" && dc.pictures != nil {
		if err := dc.pictures.Delete(c.Request.Context(), book.PictureKey); err != nil {
			log.Printf("Failed to delete picture %s of book %d: %v", book.PictureKey, book.ID, err)
		}
	}

	renderHTML(c, http.StatusOK, "book_delete.html", gin.H{
		"Title":    "Book deleted",
		"BookName": book.Name,
	})
}
