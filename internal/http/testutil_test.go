package http

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditrepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/comments"
	"github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/menu"
	"github.com/mrlokans/bookshelf/internal/database/ratings"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/storage/local"
)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

type testApp struct {
	db        *database.Database
	router    *Router
	authSvc   *auth.Service
	audit     *audit.Service
	uploadDir string

	books     *books.Repository
	comments  *comments.Repository
	ratings   *ratings.Repository
	favorites *favourites.Repository
}

// newTestApp builds the full router over a fresh database. Options adjust
// the router configuration before it is built.
func newTestApp(t *testing.T, opts ...func(*RouterConfig)) *testApp {
	t.Helper()

	db := setupTestDatabase(t)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	authCfg := config.Auth{
		SessionLifetime:  time.Hour,
		BcryptCost:       4,
		MaxLoginAttempts: 5,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}
	sessions, err := auth.NewSessionManager(sqlDB, config.DatabaseDriverSQLite, authCfg)
	require.NoError(t, err)

	uploadDir := t.TempDir()
	pictures, err := local.NewStore(uploadDir, "/uploads")
	require.NoError(t, err)

	app := &testApp{
		db:        db,
		authSvc:   auth.NewService(users.NewRepository(db.DB), authCfg),
		audit:     audit.NewService(auditrepo.NewRepository(db.DB)),
		uploadDir: uploadDir,
		books:     books.NewRepository(db.DB),
		comments:  comments.NewRepository(db.DB),
		ratings:   ratings.NewRepository(db.DB),
		favorites: favourites.NewRepository(db.DB),
	}

	cfg := RouterConfig{
		Books:           app.books,
		Comments:        app.comments,
		Ratings:         app.ratings,
		Favorites:       app.favorites,
		Menu:            menu.NewRepository(db.DB),
		Database:        db,
		Pictures:        pictures,
		MaxUploadBytes:  1 << 20,
		UploadDir:       uploadDir,
		UploadURLPrefix: "/uploads",
		Audit:           app.audit,
		AuthService:     app.authSvc,
		SessionManager:  sessions,
		AuthConfig:      authCfg,
		Version:         "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)
	t.Cleanup(router.Stop)

	app.router = router
	return app
}

// createUser registers a user directly through the service.
func (a *testApp) createUser(t *testing.T, username string) *entities.User {
	t.Helper()
	user, err := a.authSvc.Register(username, "password-"+username)
	require.NoError(t, err)
	return user
}

// createBook stores a book without going through the upload form.
func (a *testApp) createBook(t *testing.T, name string, owner *entities.User) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Name:       name,
		Web:        "https://example.com/" + url.PathEscape(name),
		PriceCents: 1999,
		PictureKey: "cover.png",
		PictureURL: "/uploads/cover.png",
	}
	if owner != nil {
		book.OwnerID = &owner.ID
	}
	require.NoError(t, a.books.CreateBook(book))
	return book
}

// client is a browser stand-in that keeps cookies between requests.
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) newClient() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

// loggedInClient registers username and logs in through the login form.
func (a *testApp) loggedInClient(t *testing.T, username string) (*client, *entities.User) {
	t.Helper()
	user := a.createUser(t, username)

	cl := a.newClient()
	w := cl.postForm("/login", url.Values{
		"username": {username},
		"password": {"password-" + username},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	return cl, user
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range cl.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	cl.app.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(cl.cookies, cookie.Name)
			continue
		}
		cl.cookies[cookie.Name] = cookie
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return cl.do(req)
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

// postMultipart sends fields plus an optional "picture" file.
func (cl *client) postMultipart(t *testing.T, path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("picture", filename)
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}
