package utils

import (
	"math"
	"strconv"
	"strings"
)

// Glyphs used by RatingGlyphs, one per star slot.
const (
	GlyphFull  = "🌕"
	GlyphHalf  = "🌗"
	GlyphEmpty = "🌑"

	StarSlots = 5
)

// RoundToTenth rounds to one decimal place on the exact binary value of v.
// Exact ties go to even (3.25 becomes 3.2), and 1.15, which is stored just
// below the tie, becomes 1.1. Scaling by 10 first would lose that.
func RoundToTenth(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// AverageRating returns the mean of stars rounded to one decimal place,
// or 0 when there are no ratings.
func AverageRating(stars []int) float64 {
	if len(stars) == 0 {
		return 0
	}
	sum := 0
	for _, s := range stars {
		sum += s
	}
	return RoundToTenth(float64(sum) / float64(len(stars)))
}

// RatingGlyphs renders a rating as five moon glyphs at half-star granularity.
// Each slot i compares round(2*(rating-i)) against the full and half
// thresholds; ties round to even (2.75 fills the third slot, 2.25 leaves it empty).
func RatingGlyphs(rating float64) string {
	var sb strings.Builder
	for i := 0; i < StarSlots; i++ {
		delta := math.RoundToEven(2 * (rating - float64(i)))
		switch {
		case delta >= 2:
			sb.WriteString(GlyphFull)
		case delta == 1:
			sb.WriteString(GlyphHalf)
		default:
			sb.WriteString(GlyphEmpty)
		}
	}
	return sb.String()
}
