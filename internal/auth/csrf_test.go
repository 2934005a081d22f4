package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET request, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	reached := false
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.POST("/test", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without CSRF token, got %d", rr.Code)
	}
	if reached {
		t.Error("handler must not run when the CSRF check fails")
	}
}

func TestCSRFMiddleware_RedirectsBackToSameHostReferer(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.POST("/books/1", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/books/1", nil)
	req.Header.Set("Referer", "http://example.com/books/1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/books/1?error=") {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	getReq := httptest.NewRequest(http.MethodGet, "/form", nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)

	token := getRR.Body.String()
	if token == "" {
		t.Fatal("expected a CSRF token")
	}

	postReq := httptest.NewRequest(http.MethodPost, "/form", nil)
	postReq.Header.Set(CSRFTokenHeader, token)
	for _, cookie := range getRR.Result().Cookies() {
		postReq.AddCookie(cookie)
	}
	postRR := httptest.NewRecorder()
	router.ServeHTTP(postRR, postReq)

	if postRR.Code != http.StatusNoContent {
		t.Errorf("Expected 204 with a valid token, got %d", postRR.Code)
	}
}

func TestCSRFTokenField(t *testing.T) {
	router := gin.New()
	var field string
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/test", func(c *gin.Context) {
		field = string(CSRFTokenField(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(field, `name="`+CSRFFieldName+`"`) {
		t.Errorf("unexpected field %q", field)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CSRFTokenField(c) != "" {
		t.Error("field should be empty without CSRF middleware")
	}
}
