// Package auth provides user accounts, sessions and request protection.
//
// Browsing is open to anonymous visitors. Registered users sign in with a
// username and password (bcrypt hashed) and are tracked with a session
// cookie managed by scs. Unsafe requests are CSRF protected via gorilla/csrf.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # CSRF signing key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
//	authService := auth.NewService(usersRepo, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessionManager)
//	router.Use(sessionManager.SessionLoadSave(), authMiddleware.Handler())
//	router.GET("/mybooks", auth.RequireAuth(), controller.MyBooks)
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c) // AnonymousUserID when logged out
package auth
