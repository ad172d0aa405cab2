package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/user-auth-service/internal/auth" // access-token verification
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's identity claims into the request context.  The signer
// must be the one used when issuing tokens.  This middleware should wrap
// protected routes so that handlers can access authenticated user
// information via `c.Get("user_id")` and `c.Get("email")`.
func JWTAuth(signer *auth.TokenSigner) echo.MiddlewareFunc {
    // The outer function returns a middleware function.  Echo executes this
    // once when registering the middleware.
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        // The returned handler is invoked for each incoming HTTP request.
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header should start
            // with "Bearer " followed by the JWT.  If it doesn't, respond
            // with 401 Unauthorized indicating that authentication is
            // required.
            authHeader := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(authHeader, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            // Remove the "Bearer " prefix to obtain the raw token string.
            raw := strings.TrimPrefix(authHeader, "Bearer ")

            // Verify the token against the access secret.  Refresh tokens
            // are signed with a different key and are rejected here, which
            // keeps them out of the generic auth path.
            claims, err := signer.VerifyAccess(raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Store the identity claims in the context.  Handlers and
            // downstream middleware can access these values via c.Get().
            c.Set("user_id", claims.UserID)
            c.Set("email", claims.Email)
            // Call the next handler in the chain and return its result.
            return next(c)
        }
    }
}
