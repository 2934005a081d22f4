package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/comments"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/utils"
)

// Submit button names that tell the detail page forms apart.
const (
	intentComment  = "comment_submit"
	intentReply    = "reply_submit"
	intentRating   = "rating_submit"
	intentFavorite = "favorite_submit"
)

// DetailController renders a book page and handles its comment, reply,
// rating and favorite forms.
type DetailController struct {
	books     BookGetter
	comments  CommentStore
	ratings   RatingStore
	favorites FavoriteStore
}

func NewDetailController(books BookGetter, comments CommentStore, ratings RatingStore, favorites FavoriteStore) *DetailController {
	return &DetailController{
		books:     books,
		comments:  comments,
		ratings:   ratings,
		favorites: favorites,
	}
}

// detailForms carries bound forms and their errors back into the page.
type detailForms struct {
	Comment       *forms.CommentForm
	CommentErrors forms.Errors
	Reply         *forms.ReplyForm
	ReplyErrors   forms.Errors
	Rating        *forms.RatingForm
	RatingErrors  forms.Errors
}

func emptyDetailForms() detailForms {
	return detailForms{
		Comment:       &forms.CommentForm{},
		CommentErrors: forms.Errors{},
		Reply:         &forms.ReplyForm{},
		ReplyErrors:   forms.Errors{},
		Rating:        &forms.RatingForm{},
		RatingErrors:  forms.Errors{},
	}
}

type detailForm interface {
	Validate() forms.Errors
}

// bindDetailForm binds and validates one of the page's forms. A body that
// cannot be read is reported on the form instead of being dropped.
func bindDetailForm(c *gin.Context, form detailForm) forms.Errors {
	bindErr := c.ShouldBind(form)
	errs := form.Validate()
	if bindErr != nil {
		log.Printf("Failed to bind form on %s: %v", c.Request.URL.Path, bindErr)
		errs.Add(forms.NonFieldErrors, "The form could not be read. Please try again.")
	}
	return errs
}

func bookPath(id uint) string {
	return fmt.Sprintf("/books/%d", id)
}

// loadBook resolves the :id parameter, rendering 404 when it names no book.
func (dc *DetailController) loadBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return nil, false
	}

	book, err := dc.books.GetBookByID(id)
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

// Show renders the book page.
func (dc *DetailController) Show(c *gin.Context) {
	book, ok := dc.loadBook(c)
	if !ok {
		return
	}
	dc.render(c, book, emptyDetailForms())
}

// Submit dispatches on the submit button that was pressed. Every form on
// the page acts on behalf of a user, so anonymous visitors log in first.
func (dc *DetailController) Submit(c *gin.Context) {
	book, ok := dc.loadBook(c)
	if !ok {
		return
	}

	if !auth.IsAuthenticated(c) {
		auth.RedirectToLogin(c, bookPath(book.ID))
		return
	}
	userID := auth.GetUserID(c)
	state := emptyDetailForms()

	switch {
	case hasPostField(c, intentComment):
		var form forms.CommentForm
		state.Comment = &form
		if state.CommentErrors = bindDetailForm(c, &form); state.CommentErrors.Any() {
			break
		}
		if _, err := dc.comments.CreateComment(book.ID, userID, form.Text, nil); err != nil {
			respondInternalError(c, err, "create comment")
			return
		}
		setFlash(c, "Your comment was posted.")
		redirectSeeOther(c, bookPath(book.ID))
		return

	case hasPostField(c, intentReply):
		var form forms.ReplyForm
		state.Reply = &form
		if state.ReplyErrors = bindDetailForm(c, &form); state.ReplyErrors.Any() {
			break
		}
		parentID, err := form.ParentID()
		if err != nil {
			respondNotFound(c, "Comment")
			return
		}
		_, err = dc.comments.CreateComment(book.ID, userID, form.Text, &parentID)
		if errors.Is(err, comments.ErrParentNotFound) {
			respondNotFound(c, "Comment")
			return
		}
		if err != nil {
			respondInternalError(c, err, "create reply")
			return
		}
		setFlash(c, "Your reply was posted.")
		redirectSeeOther(c, bookPath(book.ID))
		return

	case hasPostField(c, intentRating):
		var form forms.RatingForm
		state.Rating = &form
		if state.RatingErrors = bindDetailForm(c, &form); state.RatingErrors.Any() {
			break
		}
		if err := dc.ratings.UpsertRating(book.ID, userID, form.Value()); err != nil {
			respondInternalError(c, err, "rate book")
			return
		}
		setFlash(c, "Your rating was saved.")
		redirectSeeOther(c, bookPath(book.ID))
		return

	case hasPostField(c, intentFavorite):
		favorited, err := dc.favorites.ToggleFavorite(book.ID, userID)
		if err != nil {
			respondInternalError(c, err, "toggle favorite")
			return
		}
		if favorited {
			setFlash(c, "Added to your favorites.")
		} else {
			setFlash(c, "Removed from your favorites.")
		}
		redirectSeeOther(c, bookPath(book.ID))
		return
	}

	dc.render(c, book, state)
}

func hasPostField(c *gin.Context, name string) bool {
	_, ok := c.GetPostForm(name)
	return ok
}

func (dc *DetailController) render(c *gin.Context, book *entities.Book, state detailForms) {
	topLevel, err := dc.comments.ListTopLevelComments(book.ID)
	if err != nil {
		respondInternalError(c, err, "list comments")
		return
	}

	average, ratingCount, err := dc.ratings.AverageRating(book.ID)
	if err != nil {
		respondInternalError(c, err, "average rating")
		return
	}

	var userRating *entities.Rating
	isFavorited := false
	if userID := auth.GetUserID(c); userID != auth.AnonymousUserID {
		if userRating, err = dc.ratings.GetUserRating(book.ID, userID); err != nil {
			respondInternalError(c, err, "get user rating")
			return
		}
		if isFavorited, err = dc.favorites.IsFavorited(book.ID, userID); err != nil {
			respondInternalError(c, err, "get favorite")
			return
		}
	}

	commentCount := len(topLevel)
	for _, comment := range topLevel {
		commentCount += len(comment.Replies)
	}

	renderHTML(c, http.StatusOK, "book_detail.html", gin.H{
		"Title":         book.Name,
		"Book":          book,
		"Comments":      topLevel,
		"CommentCount":  commentCount,
		"Forms":         state,
		"StarChoices":   forms.StarChoices(),
		"UserRating":    userRating,
		"IsFavorited":   isFavorited,
		"AverageRating": average,
		"RatingCount":   ratingCount,
		"RatingString":  utils.RatingGlyphs(average),
		"CanDelete":     canDelete(c, book),
		"LoginURL":      auth.LoginURL(bookPath(book.ID)),
	})
}
