package forms

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const MaxCommentLength = 5000

// CommentForm is a top-level comment on a book.
type CommentForm struct {
	Text string `form:"text" validate:"required,max=5000"`
}

func (f *CommentForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	return check(f)
}

// ReplyForm answers an existing comment. The parent is accepted as
// parent_comment_id or, for older templates, comment_id.
type ReplyForm struct {
	Text            string `form:"text" validate:"required,max=5000"`
	ParentCommentID string `form:"parent_comment_id" validate:"required,numeric"`
	CommentID       string `form:"comment_id" validate:"-"`
}

func (f *ReplyForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	f.ParentCommentID = strings.TrimSpace(f.ParentCommentID)
	if f.ParentCommentID == "" {
		f.ParentCommentID = strings.TrimSpace(f.CommentID)
	}

	errs := check(f)
	if !errs.Any() {
		// Ids too large to exist are left for the store to report as missing.
		if _, err := f.ParentID(); err != nil && !errors.Is(err, strconv.ErrRange) {
			errs.Add("parent_comment_id", "Enter a whole number.")
		}
	}
	return errs
}

// ParentID returns the parsed parent comment id. Well-formed ids beyond
// what a row id can hold fail with strconv.ErrRange.
func (f *ReplyForm) ParentID() (uint, error) {
	id, err := strconv.ParseUint(f.ParentCommentID, 10, 64)
	if err != nil {
		return 0, err
	}
	if id > math.MaxInt64 || uint64(uint(id)) != id {
		return 0, &strconv.NumError{Func: "ParseUint", Num: f.ParentCommentID, Err: strconv.ErrRange}
	}
	return uint(id), nil
}

// RatingForm submits 1 to 5 stars.
type RatingForm struct {
	Stars string `form:"stars" validate:"required,numeric"`
}

func (f *RatingForm) Validate() Errors {
	f.Stars = strings.TrimSpace(f.Stars)
	errs := check(f)
	if errs.Any() {
		return errs
	}

	stars, err := strconv.Atoi(f.Stars)
	if err != nil || stars < entities.MinStars || stars > entities.MaxStars {
		errs.Add("stars", "Select a rating between 1 and 5.")
	}
	return errs
}

// Value returns the validated star count.
func (f *RatingForm) Value() int {
	stars, _ := strconv.Atoi(f.Stars)
	return stars
}

// StarChoices lists the selectable star values.
func StarChoices() []int {
	choices := make([]int, 0, entities.MaxStars)
	for i := entities.MinStars; i <= entities.MaxStars; i++ {
		choices = append(choices, i)
	}
	return choices
}
