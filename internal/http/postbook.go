package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/storage"
	"github.com/mrlokans/bookshelf/internal/utils"
)

// sniffLen is how much of an upload http.DetectContentType looks at.
const sniffLen = 512

// multipartOverhead leaves room for the text fields next to the picture.
const multipartOverhead = 1 << 20

var errNotAnImage = errors.New("upload is not an image")

// PostBookController handles the "post a book" form.
type PostBookController struct {
	books          BookStore
	pictures       PictureStore
	audit          AuditLogger
	maxUploadBytes int64
}

func NewPostBookController(books BookStore, pictures PictureStore, auditLogger AuditLogger, maxUploadBytes int64) *PostBookController {
	return &PostBookController{
		books:          books,
		pictures:       pictures,
		audit:          auditLogger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Form renders an empty form, with a confirmation after a successful post.
func (pc *PostBookController) Form(c *gin.Context) {
	_, submitted := c.GetQuery("submitted")
	pc.render(c, &forms.BookForm{}, forms.Errors{}, submitted)
}

// Submit validates the form, stores the picture and saves the book.
func (pc *PostBookController) Submit(c *gin.Context) {
	if pc.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, pc.maxUploadBytes+multipartOverhead)
	}

	var form forms.BookForm
	bindErr := c.ShouldBind(&form)
	if fh, err := c.FormFile("picture"); err == nil {
		form.Picture = fh
	}

	errs := form.Validate(pc.maxUploadBytes)
	var tooLarge *http.MaxBytesError
	if errors.As(bindErr, &tooLarge) {
		errs["picture"] = fmt.Sprintf("Ensure the picture is at most %d MB.", pc.maxUploadBytes>>20)
	}
	if errs.Any() {
		pc.render(c, &form, errs, false)
		return
	}

	priceCents, err := form.PriceCents()
	if err != nil {
		errs.Add("price", "Enter a number.")
		pc.render(c, &form, errs, false)
		return
	}

	object, err := pc.storePicture(c.Request.Context(), form.Picture)
	if errors.Is(err, errNotAnImage) {
		errs.Add("picture", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		pc.render(c, &form, errs, false)
		return
	}
	if err != nil {
		respondInternalError(c, err, "store picture")
		return
	}

	book := &entities.Book{
		Name:       form.Name,
		Web:        form.Web,
		PriceCents: priceCents,
		PictureKey: object.Key,
		PictureURL: object.URL,
		OwnerID:    auth.CurrentUserID(c),
	}
	if err := pc.books.CreateBook(book); err != nil {
		if delErr := pc.pictures.Delete(c.Request.Context(), object.Key); delErr != nil {
			log.Printf("Failed to remove orphaned picture %s: %v", object.Key, delErr)
		}
		respondInternalError(c, err, "create book")
		return
	}

	if pc.audit != nil {
		pc.audit.LogCreate(book.OwnerID, audit.EntityBook, book.ID, book.Name, c.ClientIP())
	}

	redirectSeeOther(c, "/postbook?submitted=True")
}

// storePicture checks the upload really is an image before handing it to the store.
func (pc *PostBookController) storePicture(ctx context.Context, fh *multipart.FileHeader) (*storage.Object, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	switch {
	case strings.HasPrefix(contentType, "image/"):
	case n > 0 && contentType == "application/octet-stream" && utils.IsImageFilename(fh.Filename):
		// Unrecognised binary; trust an image extension
		contentType = utils.ContentTypeForFilename(fh.Filename)
	default:
		return nil, errNotAnImage
	}

	return pc.pictures.Save(ctx, fh.Filename, io.MultiReader(bytes.NewReader(head), file), contentType)
}

func (pc *PostBookController) render(c *gin.Context, form *forms.BookForm, errs forms.Errors, submitted bool) {
	renderHTML(c, http.StatusOK, "postbook.html", gin.H{
		"Title":     "Post Book",
		"Form":      form,
		"Errors":    errs,
		"Submitted": submitted,
	})
}
