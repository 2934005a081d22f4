package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	menuContextKey    = "menu_items"
	flasherContextKey = "flasher"
)

// Flasher stores one-shot messages between a redirect and the next page.
type Flasher interface {
	SetFlash(r *http.Request, msg string)
	PopFlash(r *http.Request) string
}

// MenuContextMiddleware loads the navigation menu once per request.
// A failing menu query renders pages without navigation instead of failing them.
func MenuContextMiddleware(store MenuStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := store.ListMenu()
		if err != nil {
			log.Printf("Failed to load menu: %v", err)
			items = nil
		}
		c.Set(menuContextKey, items)
		c.Next()
	}
}

// FlashContextMiddleware exposes the session flash store to handlers.
func FlashContextMiddleware(f Flasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(flasherContextKey, f)
		c.Next()
	}
}

// GetMenu returns the menu loaded by MenuContextMiddleware.
func GetMenu(c *gin.Context) []entities.MainMenu {
	if v, exists := c.Get(menuContextKey); exists {
		if items, ok := v.([]entities.MainMenu); ok {
			return items
		}
	}
	return nil
}

func setFlash(c *gin.Context, msg string) {
	if v, exists := c.Get(flasherContextKey); exists {
		if f, ok := v.(Flasher); ok {
			f.SetFlash(c.Request, msg)
		}
	}
}

func popFlash(c *gin.Context) string {
	if v, exists := c.Get(flasherContextKey); exists {
		if f, ok := v.(Flasher); ok {
			return f.PopFlash(c.Request)
		}
	}
	return ""
}

// pageData adds the values every page layout needs: menu, auth state,
// CSRF field and the pending flash message.
func pageData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Menu"] = GetMenu(c)
	data["Auth"] = GetAuthTemplateData(c)
	data["CSRFField"] = auth.CSRFTokenField(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(c)
	}
	return data
}

// renderHTML renders a page template with the shared layout data.
func renderHTML(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, pageData(c, data))
}

// --- Error Response Helpers ---

func respondError(c *gin.Context, status int, title, message string) {
	renderHTML(c, status, "error.html", gin.H{
		"Title":   title,
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

// respondNotFound renders the 404 page.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, "Not Found", resource+" not found")
}

// respondForbidden renders the 403 page.
func respondForbidden(c *gin.Context, message string) {
	respondError(c, http.StatusForbidden, "Forbidden", message)
}

// respondInternalError logs the error and renders a generic 500 page.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	respondError(c, http.StatusInternalServerError, "Server Error", "Something went wrong. Please try again later.")
}

// --- Parameter Parsing ---

// parseIDParam extracts an unsigned integer ID from URL parameters.
// Malformed IDs cannot name an existing record, so they get the 404 page.
func parseIDParam(c *gin.Context, paramName, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondNotFound(c, resource)
		return 0, false
	}
	return uint(id), true
}

// redirectSeeOther is the post/redirect/get response for successful form posts.
func redirectSeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
