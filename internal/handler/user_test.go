package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlob struct{ lastType string }

func (f *fakeBlob) Upload(_ context.Context, _ []byte, contentType string) (string, error) {
	f.lastType = contentType
	return "https://cdn.example.com/profile/photo.png", nil
}

func TestGetUserByEmail(t *testing.T) {
	app := newTestApp(t)
	rec := app.request(http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.request(http.MethodGet, "/users?email=a@x.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "alice", body["username"])
	// Sensitive columns never leave the handler.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "refresh")

	rec = app.request(http.MethodGet, "/users?email=nobody@x.com", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfileAddressAndPhoto(t *testing.T) {
	blobs := &fakeBlob{}
	app := newTestAppWithBlobs(t, blobs)

	rec := app.request(http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	access, err := app.signer.IssueAccess(1, "a@x.com")
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("address", "1 Main St"))
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="photo.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+access)
	res := httptest.NewRecorder()
	app.e.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := decode(t, res)
	assert.Equal(t, "1 Main St", body["address"])
	assert.Equal(t, "https://cdn.example.com/profile/photo.png", body["photo"])
	assert.Equal(t, "image/png", blobs.lastType)

	// The stored profile is visible through the protected read.
	rec = app.request(http.MethodGet, "/users/profile", "",
		map[string]string{"Authorization": "Bearer " + access})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 Main St", decode(t, rec)["address"])
}

func TestUpdateProfileRejectsNonImage(t *testing.T) {
	app := newTestAppWithBlobs(t, &fakeBlob{})

	rec := app.request(http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	access, err := app.signer.IssueAccess(1, "a@x.com")
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="notes.txt"`)
	hdr.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+access)
	res := httptest.NewRecorder()
	app.e.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUpdateProfileNothingToUpdate(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	access, err := app.signer.IssueAccess(1, "a@x.com")
	require.NoError(t, err)

	rec = app.request(http.MethodPatch, "/users", "",
		map[string]string{"Authorization": "Bearer " + access})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
