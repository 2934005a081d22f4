package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesController serves the static pages.
type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

// Home lists the menu entries.
func (pc *PagesController) Home(c *gin.Context) {
	renderHTML(c, http.StatusOK, "index.html", gin.H{
		"Title": "Home",
	})
}

func (pc *PagesController) About(c *gin.Context) {
	renderHTML(c, http.StatusOK, "about_us.html", gin.H{
		"Title": "About Us",
	})
}

// NotFound is the router's fallback for unknown routes.
func (pc *PagesController) NotFound(c *gin.Context) {
	respondNotFound(c, "Page")
}
