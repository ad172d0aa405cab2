package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/storage"
)

// maxPhotoBytes caps profile photo uploads at 2 MiB.
const maxPhotoBytes = 2 * 1024 * 1024

// UserHandler bundles dependencies for profile endpoints.  Blobs may be nil
// when no object store is configured; photo uploads are rejected in that
// case but address updates still work.
type UserHandler struct {
	Users repository.UserRepository
	Blobs storage.BlobStore
}

func NewUserHandler(users repository.UserRepository, blobs storage.BlobStore) *UserHandler {
	return &UserHandler{Users: users, Blobs: blobs}
}

// GetByEmail returns the sanitized user record for ?email=.  Password and
// refresh fields are never serialized.
func (h *UserHandler) GetByEmail(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Username: u.Username})
}

// Profile returns the user_info row of the authenticated user (protected).
func (h *UserHandler) Profile(c echo.Context) error {
	id, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	info, err := h.Users.GetInfo(ctx, u.UserInfoID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, info)
}

// Update patches the authenticated user's profile (protected, multipart).
// The optional "photo" file part is uploaded to the blob store and its
// public URL stored; the optional "address" form value is stored as-is.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var address, photoURL *string
	if v := strings.TrimSpace(c.FormValue("address")); v != "" {
		address = &v
	}

	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxPhotoBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "photo exceeds 2MB limit"})
		}
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo must be an image"})
		}
		if h.Blobs == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "photo storage not configured"})
		}
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable photo"})
		}
		data, err := io.ReadAll(io.LimitReader(src, maxPhotoBytes+1))
		_ = src.Close()
		if err != nil || int64(len(data)) > maxPhotoBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "photo exceeds 2MB limit"})
		}
		url, err := h.Blobs.Upload(ctx, data, contentType)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "photo upload failed"})
		}
		photoURL = &url
	}

	if address == nil && photoURL == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	if err := h.Users.UpdateInfo(ctx, u.UserInfoID, address, photoURL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	info, err := h.Users.GetInfo(ctx, u.UserInfoID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, info)
}
