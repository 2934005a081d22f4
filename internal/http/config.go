package http

import (
	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Persistence
	Books     BookStore
	Comments  CommentStore
	Ratings   RatingStore
	Favorites FavoriteStore
	Menu      MenuStore
	Database  Pinger

	// Picture uploads
	Pictures        PictureStore
	MaxUploadBytes  int64
	UploadDir       string // Served under UploadURLPrefix when set (local backend)
	UploadURLPrefix string
	ImageOrigins    []string // Extra origins allowed to serve pictures (CSP)

	Audit *audit.Service // nil disables the audit trail

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte // CSRF protection is off when empty

	// UI paths; empty means the embedded assets
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
