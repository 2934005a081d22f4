package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes an uploaded filename safe to use as part of a storage key.
// Spaces become dashes so the resulting URL needs no escaping.
func SanitizeFilename(filename string) string {
	// Drop any client-supplied directory components
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		filename = ""
	}

	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, " ", "-")

	// Limit length (most filesystems support 255, but leave room for a prefix)
	if len(filename) > 200 {
		ext := filepath.Ext(filename)
		if len(ext) > 10 {
			ext = ""
		}
		filename = filename[:200-len(ext)] + ext
	}

	if filename == "" {
		filename = "upload"
	}

	return filename
}

// KnownImageExtensions contains the picture extensions accepted for book uploads
var KnownImageExtensions = []string{
	".jpg",
	".jpeg",
	".png",
	".gif",
	".webp",
}

// IsImageFilename reports whether filename has one of KnownImageExtensions.
func IsImageFilename(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, known := range KnownImageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// ContentTypeForFilename guesses an image content type from the extension.
func ContentTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
