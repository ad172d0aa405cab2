package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/user-auth-service/internal/auth"
)

func newTestVerifier(t *testing.T) (*CredentialVerifier, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	hasher := auth.NewHasher(bcrypt.MinCost, bcrypt.MinCost)

	digest, err := hasher.HashPassword("secret1")
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), "a@x.com", "alice", digest)
	require.NoError(t, err)

	return NewCredentialVerifier(repo, hasher), repo
}

func TestVerifyMatchingCredentials(t *testing.T) {
	v, _ := newTestVerifier(t)

	id, err := v.Verify(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", id.Email)
	assert.NotZero(t, id.ID)
}

func TestVerifyWrongPassword(t *testing.T) {
	v, _ := newTestVerifier(t)

	_, err := v.Verify(context.Background(), "a@x.com", "secret2")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerifyUnknownEmail(t *testing.T) {
	v, _ := newTestVerifier(t)

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := v.Verify(context.Background(), "b@x.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerifyWithProfile(t *testing.T) {
	v, repo := newTestVerifier(t)

	addr := "1 Main St"
	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateInfo(context.Background(), u.UserInfoID, &addr, nil))

	vu, err := v.VerifyWithProfile(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", vu.Username)
	require.NotNil(t, vu.Info)
	require.NotNil(t, vu.Info.Address)
	assert.Equal(t, addr, *vu.Info.Address)
}
