package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/user-auth-service/internal/auth"       // token/credential error taxonomy
	"github.com/iliyamo/user-auth-service/internal/model"      // identity and record types
	"github.com/iliyamo/user-auth-service/internal/queue"      // account event publishing
	"github.com/iliyamo/user-auth-service/internal/repository" // store error taxonomy
	"github.com/iliyamo/user-auth-service/internal/service"    // session/credential services
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Verifier *service.CredentialVerifier
	Sessions *service.SessionService
}

func NewAuthHandler(v *service.CredentialVerifier, s *service.SessionService) *AuthHandler {
	return &AuthHandler{Verifier: v, Sessions: s}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
type signupResp struct {
	Message string   `json:"message"`
	User    userPart `json:"user"`
	Token   string   `json:"token"`
}
type loginResp struct {
	ID           uint64 `json:"id"`
	Email        string `json:"email"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
type signinResp struct {
	ID           uint64          `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	UserInfo     *model.UserInfo `json:"userInfo"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
}
type refreshResp struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// normalizeCredentials trims and lowercases the email and reports whether
// both fields are usable.
func normalizeCredentials(email, password *string) bool {
	*email = strings.ToLower(strings.TrimSpace(*email))
	return *email != "" && *password != ""
}

// Signup: create user with an empty profile and return a first access token.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !normalizeCredentials(&req.Email, &req.Password) || strings.TrimSpace(req.Username) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/username/password required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, token, err := h.Sessions.SignUp(ctx, req.Email, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// Best-effort event for downstream consumers; a broker outage must not
	// fail the signup.
	_ = queue.PublishAccountRegistered(ctx, queue.AccountRegisteredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, signupResp{
		Message: "User successfully created",
		User:    userPart{ID: u.ID, Email: u.Email, Username: u.Username},
		Token:   token,
	})
}

// Login: verify credentials and return the bare identity with a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !normalizeCredentials(&req.Email, &req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Verifier.Verify(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	pair, err := h.Sessions.Login(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		ID:           id.ID,
		Email:        id.Email,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Signin: credential login that additionally echoes the username and profile.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !normalizeCredentials(&req.Email, &req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vu, err := h.Verifier.VerifyWithProfile(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	pair, err := h.Sessions.Login(ctx, model.Identity{ID: vu.ID, Email: vu.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	return c.JSON(http.StatusOK, signinResp{
		ID:           vu.ID,
		Email:        vu.Email,
		Username:     vu.Username,
		UserInfo:     vu.Info,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// RefreshToken: rotate the refresh token presented in the JSON body.  The
// token travels as a request field, never as a bearer header, so it stays
// out of the generic auth middleware.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Sessions.Rotate(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoActiveSession):
			// No matching session is reported as a null payload, not an
			// error status.
			return c.JSON(http.StatusOK, nil)
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
		}
	}

	return c.JSON(http.StatusOK, refreshResp{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout: clear the stored refresh fingerprint for the authenticated user
// (protected).  Revoking an already-revoked session succeeds silently.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Revoke(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User has been successfully logged out"})
}

// Profile: echo the identity embedded in the access token (protected).
func (h *AuthHandler) Profile(c echo.Context) error {
	id, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, id)
}

// identityFromContext rebuilds the token identity placed in the context by
// the JWTAuth middleware.
func identityFromContext(c echo.Context) (model.Identity, bool) {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return model.Identity{}, false
	}
	email, ok := c.Get("email").(string)
	if !ok || email == "" {
		return model.Identity{}, false
	}
	return model.Identity{ID: uid, Email: email}, true
}
