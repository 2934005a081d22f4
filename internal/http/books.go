package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// BooksController lists and searches books.
type BooksController struct {
	books BookStore
}

func NewBooksController(books BookStore) *BooksController {
	return &BooksController{books: books}
}

// List renders every book with its picture.
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.books.ListAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	renderHTML(c, http.StatusOK, "displaybooks.html", gin.H{
		"Title": "Display Books",
		"Books": books,
	})
}

// Search matches book names case-insensitively. An empty query has no results.
func (bc *BooksController) Search(c *gin.Context) {
	query := c.Query("q")

	results, err := bc.books.SearchBooksByName(query)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}

	renderHTML(c, http.StatusOK, "search_results.html", gin.H{
		"Title":    "Search",
		"Query":    query,
		"Searched": strings.TrimSpace(query) != "",
		"Results":  results,
	})
}

// MyBooks shows the books the user posted and the ones they favorited.
func (bc *BooksController) MyBooks(c *gin.Context) {
	userID := auth.GetUserID(c)

	owned, err := bc.books.ListBooksByOwner(userID)
	if err != nil {
		respondInternalError(c, err, "list owned books")
		return
	}

	favorites, err := bc.books.ListFavoritedBooks(userID)
	if err != nil {
		respondInternalError(c, err, "list favorited books")
		return
	}

	renderHTML(c, http.StatusOK, "mybooks.html", gin.H{
		"Title":         "My Books",
		"Books":         owned,
		"FavoriteBooks": favorites,
	})
}
