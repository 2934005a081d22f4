package forms

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/mrlokans/bookshelf/internal/utils"
)

// BookForm is the "post a book" form. Picture is filled from the multipart
// request by the handler since it is not a plain form value.
type BookForm struct {
	Name    string                `form:"name" validate:"required,max=200"`
	Web     string                `form:"web" validate:"required,max=300,httpurl"`
	Price   string                `form:"price" validate:"required,price"`
	Picture *multipart.FileHeader `form:"-" validate:"-"`
}

func (f *BookForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Web = strings.TrimSpace(f.Web)
	f.Price = strings.TrimSpace(f.Price)
}

// Validate checks every field. maxPictureBytes bounds the upload size.
func (f *BookForm) Validate(maxPictureBytes int64) Errors {
	f.normalize()
	errs := check(f)

	switch {
	case f.Picture == nil:
		errs.Add("picture", "This field is required.")
	case f.Picture.Size == 0:
		errs.Add("picture", "The submitted file is empty.")
	case maxPictureBytes > 0 && f.Picture.Size > maxPictureBytes:
		errs.Add("picture", fmt.Sprintf("Ensure the picture is at most %d MB.", maxPictureBytes>>20))
	case !utils.IsImageFilename(f.Picture.Filename):
		errs.Add("picture", "Upload a valid image. Allowed types: "+strings.Join(utils.KnownImageExtensions, ", ")+".")
	}

	return errs
}

// PriceCents returns the validated price in cents.
func (f *BookForm) PriceCents() (int64, error) {
	return ParsePriceCents(f.Price)
}

// ParsePriceCents converts a decimal string such as "12.5" into 1250.
func ParsePriceCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !pricePattern.MatchString(s) {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	frac = (frac + "00")[:2]
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	return units*100 + cents, nil
}
