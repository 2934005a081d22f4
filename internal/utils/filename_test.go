package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes invalid characters",
			input:    `file<>:"|?*name.png`,
			expected: "filename.png",
		},
		{
			name:     "strips directories",
			input:    "../../etc/passwd",
			expected: "passwd",
		},
		{
			name:     "strips windows directories",
			input:    `C:\Users\me\cover.jpg`,
			expected: "cover.jpg",
		},
		{
			name:     "replaces whitespace with dashes",
			input:    "my  book\tcover.jpg",
			expected: "my-book-cover.jpg",
		},
		{
			name:     "empty falls back to upload",
			input:    "",
			expected: "upload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_TruncatesLongNames(t *testing.T) {
	input := strings.Repeat("a", 300) + ".png"
	result := SanitizeFilename(input)

	assert.Len(t, result, 200)
	assert.True(t, strings.HasSuffix(result, ".png"))
}

func TestIsImageFilename(t *testing.T) {
	assert.True(t, IsImageFilename("cover.JPG"))
	assert.True(t, IsImageFilename("cover.webp"))
	assert.False(t, IsImageFilename("book.pdf"))
	assert.False(t, IsImageFilename("noext"))
}

func TestContentTypeForFilename(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForFilename("a.jpeg"))
	assert.Equal(t, "image/png", ContentTypeForFilename("a.PNG"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFilename("a.txt"))
}
