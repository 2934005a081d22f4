package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// Router is the configured engine plus the resources it owns.
type Router struct {
	*gin.Engine
	authController *auth.AuthController
}

// Stop releases background resources such as the login rate limiter.
func (r *Router) Stop() {
	if r.authController != nil {
		r.authController.Stop()
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if err := validateRouterConfig(cfg); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware(cfg.ImageOrigins...))
	if cfg.AuthConfig.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(FlashContextMiddleware(cfg.SessionManager))
	}

	if cfg.AuthService != nil {
		router.Use(auth.NewMiddleware(cfg.AuthService, cfg.SessionManager).Handler())
	}

	// Inject auth data and the menu for templates
	router.Use(AuthContextMiddleware())
	if cfg.Menu != nil {
		router.Use(MenuContextMiddleware(cfg.Menu))
	}

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	router.StaticFS("/static", staticFiles(cfg.StaticPath))
	if cfg.UploadDir != "" && cfg.UploadURLPrefix != "" {
		router.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	}

	result := &Router{Engine: router}

	if cfg.AuthService != nil {
		result.authController = auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig, cfg.Audit, pageData)
		result.authController.RegisterRoutes(router)
	}

	pages := NewPagesController()
	health := NewHealthController(cfg.Database, cfg.Pictures, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	postBook := NewPostBookController(cfg.Books, cfg.Pictures, cfg.Audit, cfg.MaxUploadBytes)
	detail := NewDetailController(cfg.Books, cfg.Comments, cfg.Ratings, cfg.Favorites)
	deleteController := NewDeleteController(cfg.Books, cfg.Pictures, cfg.Audit)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	router.GET("/", pages.Home)
	router.GET("/about", pages.About)

	router.GET("/postbook", postBook.Form)
	router.POST("/postbook", postBook.Submit)

	router.GET("/books", booksController.List)
	router.GET("/search", booksController.Search)
	router.GET("/mybooks", auth.RequireAuth(), booksController.MyBooks)

	router.GET("/books/:id", detail.Show)
	router.POST("/books/:id", detail.Submit)
	router.GET("/books/:id/delete", deleteController.Confirm)
	router.POST("/books/:id/delete", auth.RequireAuth(), deleteController.Delete)

	router.NoRoute(pages.NotFound)

	return result, nil
}

func validateRouterConfig(cfg RouterConfig) error {
	switch {
	case cfg.Books == nil:
		return errors.New("router: books store is required")
	case cfg.Comments == nil, cfg.Ratings == nil, cfg.Favorites == nil:
		return errors.New("router: comment, rating and favorite stores are required")
	case cfg.Pictures == nil:
		return errors.New("router: picture store is required")
	}
	return nil
}
