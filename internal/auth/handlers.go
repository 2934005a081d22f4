package auth

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/forms"
)

// isLocalPath validates that a redirect path is local to prevent open redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}

	if !strings.HasPrefix(path, "/") {
		return false
	}

	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}

	if strings.Contains(path, "://") {
		return false
	}

	if strings.Contains(path, "\\") {
		return false
	}

	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuditLogger records authentication events.
type AuditLogger interface {
	LogAuth(userID *uint, action string, ipAddr, userAgent string, success bool)
}

// PageDataFunc decorates template data with site-wide values such as the menu.
type PageDataFunc func(c *gin.Context, data gin.H) gin.H

// AuthController handles login, logout and registration pages.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	throttle       *LoginThrottle
	audit          AuditLogger
	pageData       PageDataFunc
}

// NewAuthController creates a new authentication controller. audit and
// pageData may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth, audit AuditLogger, pageData PageDataFunc) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		throttle:       NewLoginThrottle(cfg),
		audit:          audit,
		pageData:       pageData,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET("/register/success", ac.RegisterSuccess)
}

// Stop ends the login throttle sweeper.
func (ac *AuthController) Stop() {
	if ac.throttle != nil {
		ac.throttle.Stop()
	}
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ac.render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Form":  forms.LoginForm{Next: sanitizeRedirectPath(c.Query("next"))},
		"Error": c.Query("error"),
	})
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	var form forms.LoginForm
	_ = c.ShouldBind(&form)
	form.Next = sanitizeRedirectPath(form.Next)
	clientIP := c.ClientIP()

	renderError := func(status int, msg string) {
		form.Password = ""
		ac.render(c, status, "login.html", gin.H{
			"Title": "Login",
			"Form":  form,
			"Error": msg,
		})
	}

	if errs := form.Validate(); errs.Any() {
		renderError(http.StatusOK, "Please enter a username and password.")
		return
	}

	if ac.throttle != nil {
		allowed, retryAfter := ac.throttle.Allow(clientIP, form.Username)
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			renderError(http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
			return
		}
	}

	user, err := ac.service.Authenticate(form.Username, form.Password)
	if err != nil {
		if ac.throttle != nil {
			ac.throttle.RecordFailure(clientIP, form.Username)
		}
		ac.logAuth(c, nil, "login_failed", false)

		msg := "Invalid username or password"
		if errors.Is(err, ErrAccountLocked) {
			msg = "Account is locked. Please try again later."
		}
		renderError(http.StatusOK, msg)
		return
	}

	if ac.throttle != nil {
		ac.throttle.RecordSuccess(clientIP, form.Username)
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			log.Printf("Failed to create session for %s: %v", user.Username, err)
			renderError(http.StatusInternalServerError, "Failed to create session")
			return
		}
	}
	ac.logAuth(c, &user.ID, "login", true)

	c.Redirect(http.StatusSeeOther, form.Next)
}

// Logout destroys the session and returns to the home page.
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	if IsAuthenticated(c) {
		ac.logAuth(c, CurrentUserID(c), "logout", true)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage renders the signup form.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	ac.render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   forms.RegisterForm{},
		"Errors": forms.Errors{},
	})
}

// Register creates the account and redirects to the success page.
func (ac *AuthController) Register(c *gin.Context) {
	var form forms.RegisterForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if !errs.Any() {
		user, err := ac.service.Register(form.Username, form.Password1)
		switch {
		case err == nil:
			ac.logAuth(c, &user.ID, "register", true)
			c.Redirect(http.StatusSeeOther, "/register/success")
			return
		case errors.Is(err, ErrUserExists):
			errs.Add("username", "A user with that username already exists.")
		case errors.Is(err, ErrUsernameInvalid):
			errs.Add("username", "Use 3-64 letters, digits, underscores or hyphens.")
		case errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
			errs.Add("password1", "Use between 8 and 72 characters.")
		default:
			log.Printf("Failed to register %s: %v", form.Username, err)
			errs.Add(forms.NonFieldErrors, "Registration failed. Please try again.")
		}
	}

	form.Password1, form.Password2 = "", ""
	ac.render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

// RegisterSuccess confirms the account was created.
func (ac *AuthController) RegisterSuccess(c *gin.Context) {
	ac.render(c, http.StatusOK, "register_success.html", gin.H{
		"Title": "Registration complete",
	})
}

func (ac *AuthController) logAuth(c *gin.Context, userID *uint, action string, success bool) {
	if ac.audit == nil {
		return
	}
	ac.audit.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
}

func (ac *AuthController) render(c *gin.Context, status int, name string, data gin.H) {
	if ac.pageData != nil {
		data = ac.pageData(c, data)
	} else {
		data["CSRFField"] = CSRFTokenField(c)
	}
	c.HTML(status, name, data)
}
