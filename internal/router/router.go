package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/user-auth-service/internal/auth"       // token signer used by the JWT middleware
	"github.com/iliyamo/user-auth-service/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/user-auth-service/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /auth
// (signup, signin, login, refresh-token); logout and the token-identity
// profile require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, signer *auth.TokenSigner) {
	g := e.Group("/auth")
	// Register a POST endpoint to handle user registration at /auth/signup.
	g.POST("/signup", a.Signup)
	// Credential login returning the full projection (username + profile).
	g.POST("/signin", a.Signin)
	// Credential login returning the bare identity with the token pair.
	g.POST("/login", a.Login)
	// Rotate the refresh token presented in the JSON body.  The refresh
	// token is never accepted from the Authorization header.
	g.POST("/refresh-token", a.RefreshToken)

	// Protected endpoints execute the JWTAuth middleware before being
	// invoked.
	protected := g.Group("")
	protected.Use(middleware.JWTAuth(signer))
	protected.GET("/logout", a.Logout)
	protected.GET("/profile", a.Profile)
}

// RegisterUsers registers the profile endpoints.  The lookup by email is
// public; reading and updating the caller's own profile require a valid
// access token.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, signer *auth.TokenSigner) {
	e.GET("/users", u.GetByEmail)

	g := e.Group("/users")
	g.Use(middleware.JWTAuth(signer))
	g.GET("/profile", u.Profile)
	g.PATCH("", u.Update)
}
