package auth

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
)

const testAuthTemplates = `
{{define "login.html"}}login|{{.Error}}|{{.Form.Next}}{{end}}
{{define "register.html"}}register|{{range $k, $v := .Errors}}{{$k}}={{$v}};{{end}}{{end}}
{{define "register_success.html"}}registered{{end}}
`

type recordedAuth struct {
	action  string
	success bool
}

type fakeAuditLogger struct {
	events []recordedAuth
}

func (f *fakeAuditLogger) LogAuth(_ *uint, action, _, _ string, success bool) {
	f.events = append(f.events, recordedAuth{action: action, success: success})
}

type authTestServer struct {
	router  *gin.Engine
	audit   *fakeAuditLogger
	cookies []*http.Cookie
}

func setupAuthServer(t *testing.T) *authTestServer {
	t.Helper()

	db, svc := setupAuthTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := testAuthConfig()
	sm, err := NewSessionManager(sqlDB, config.DatabaseDriverSQLite, cfg)
	require.NoError(t, err)

	audit := &fakeAuditLogger{}
	controller := NewAuthController(svc, sm, cfg, audit, nil)
	t.Cleanup(controller.Stop)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("").Parse(testAuthTemplates)))
	router.Use(sm.SessionLoadSave())
	router.Use(NewMiddleware(svc, sm).Handler())
	controller.RegisterRoutes(router)
	router.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "hello %s", GetUsername(c))
	})

	return &authTestServer{router: router, audit: audit}
}

func (s *authTestServer) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	if cookies := rr.Result().Cookies(); len(cookies) > 0 {
		s.cookies = cookies
	}
	return rr
}

func TestAuthFlow_RegisterLoginAccess(t *testing.T) {
	s := setupAuthServer(t)

	rr := s.do(http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?next=%2Fprivate", rr.Header().Get("Location"))

	rr = s.do(http.MethodPost, "/register", url.Values{
		"username":  {"alice"},
		"password1": {"correct-horse"},
		"password2": {"correct-horse"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/register/success", rr.Header().Get("Location"))

	rr = s.do(http.MethodGet, "/register/success", nil)
	assert.Equal(t, "registered", rr.Body.String())

	rr = s.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
		"next":     {"/private"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/private", rr.Header().Get("Location"))

	rr = s.do(http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello alice", rr.Body.String())

	rr = s.do(http.MethodPost, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = s.do(http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusFound, rr.Code)

	assert.Equal(t, []recordedAuth{
		{"register", true},
		{"login", true},
		{"logout", true},
	}, s.audit.events)
}

func TestAuthFlow_RegisterErrors(t *testing.T) {
	s := setupAuthServer(t)

	rr := s.do(http.MethodPost, "/register", url.Values{
		"username":  {"alice"},
		"password1": {"correct-horse"},
		"password2": {"different-horse"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "password2=")

	s.do(http.MethodPost, "/register", url.Values{
		"username":  {"alice"},
		"password1": {"correct-horse"},
		"password2": {"correct-horse"},
	})
	rr = s.do(http.MethodPost, "/register", url.Values{
		"username":  {"alice"},
		"password1": {"correct-horse"},
		"password2": {"correct-horse"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "username=A user with that username already exists.")
}

func TestAuthFlow_InvalidLogin(t *testing.T) {
	s := setupAuthServer(t)

	rr := s.do(http.MethodPost, "/login", url.Values{
		"username": {"ghost"},
		"password": {"whatever1"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid username or password")
	assert.Equal(t, []recordedAuth{{"login_failed", false}}, s.audit.events)
}

func TestAuthFlow_LoginRejectsExternalNext(t *testing.T) {
	s := setupAuthServer(t)
	s.do(http.MethodPost, "/register", url.Values{
		"username":  {"alice"},
		"password1": {"correct-horse"},
		"password2": {"correct-horse"},
	})

	rr := s.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
		"next":     {"//evil.com"},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestAuthFlow_RateLimited(t *testing.T) {
	s := setupAuthServer(t)
	s.do(http.MethodPost, "/register", url.Values{
		"username":  {"alice"},
		"password1": {"correct-horse"},
		"password2": {"correct-horse"},
	})

	for i := 0; i < testAuthConfig().MaxLoginAttempts; i++ {
		s.do(http.MethodPost, "/login", url.Values{
			"username": {"alice"},
			"password": {"wrong-password"},
		})
	}

	rr := s.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}
