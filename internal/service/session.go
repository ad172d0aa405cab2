// Package service contains the session/token lifecycle logic: credential
// verification, dual-token issuance, refresh rotation against the stored
// fingerprint, and revocation.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/user-auth-service/internal/auth"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/repository"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.  It is returned to the caller and never stored verbatim; only the
// refresh token's bcrypt fingerprint is persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService owns the refresh_token_hash field on the user record and
// drives its transitions.  The field is NULL when the user has no session,
// and holds the fingerprint of exactly one live refresh token otherwise.
//
// Every transition for one user runs under that user's session lock, and
// rotation additionally replaces the fingerprint with a single
// compare-and-set keyed on the value it read, so interleaved rotations
// cannot both succeed.
type SessionService struct {
	users  repository.UserRepository
	signer *auth.TokenSigner
	hasher *auth.Hasher
	locks  SessionLocker
}

func NewSessionService(users repository.UserRepository, signer *auth.TokenSigner, hasher *auth.Hasher, locks SessionLocker) *SessionService {
	return &SessionService{users: users, signer: signer, hasher: hasher, locks: locks}
}

// SignUp creates a user with a hashed password and an empty profile and
// returns the record together with a first access token.  Duplicate emails
// surface as repository.ErrEmailExists.
func (s *SessionService) SignUp(ctx context.Context, email, username, password string) (*model.User, string, error) {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, email, username, hash)
	if err != nil {
		return nil, "", err
	}
	token, err := s.signer.IssueAccess(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login issues a fresh token pair for an already-verified identity and
// overwrites the stored refresh fingerprint.  Any prior session for the
// user is implicitly invalidated: one live refresh token per user.
func (s *SessionService) Login(ctx context.Context, id model.Identity) (*TokenPair, error) {
	unlock, err := s.locks.Lock(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	pair, digest, err := s.issuePair(id.ID, id.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshDigest(ctx, id.Email, digest); err != nil {
		return nil, fmt.Errorf("persist refresh digest: %w", err)
	}
	return pair, nil
}

// Rotate exchanges a presented refresh token for a new pair.  The sequence
// is verify signature/expiry, load the record named by the token, check a
// fingerprint exists, check it matches, then swap it for the new pair's
// fingerprint in one atomic update.
//
// The error kinds are deliberate: a consumed or revoked session returns
// ErrNoActiveSession while a live session with a non-matching token returns
// ErrInvalidCredentials, so callers can tell "already rotated" from "never
// valid".
func (s *SessionService) Rotate(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.signer.VerifyRefresh(presented)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The token is validly signed but the account is gone.
			return nil, auth.ErrNoActiveSession
		}
		return nil, err
	}
	if u.RefreshTokenHash == nil {
		return nil, auth.ErrNoActiveSession
	}
	if !s.hasher.VerifyRefresh(presented, *u.RefreshTokenHash) {
		return nil, auth.ErrInvalidCredentials
	}

	pair, digest, err := s.issuePair(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	swapped, err := s.users.SwapRefreshDigest(ctx, u.Email, *u.RefreshTokenHash, digest)
	if err != nil {
		return nil, fmt.Errorf("persist refresh digest: %w", err)
	}
	if !swapped {
		// Another transition consumed the session between our read and the
		// swap.  Treated the same as a replayed token.
		return nil, auth.ErrNoActiveSession
	}
	return pair, nil
}

// Revoke clears the stored refresh fingerprint.  Idempotent: revoking a user
// with no active session succeeds silently.
func (s *SessionService) Revoke(ctx context.Context, id model.Identity) error {
	unlock, err := s.locks.Lock(ctx, id.Email)
	if err != nil {
		return err
	}
	defer unlock()

	return s.users.ClearRefreshDigest(ctx, id.Email)
}

func (s *SessionService) issuePair(id uint64, email string) (*TokenPair, string, error) {
	access, err := s.signer.IssueAccess(id, email)
	if err != nil {
		return nil, "", err
	}
	refresh, err := s.signer.IssueRefresh(id, email)
	if err != nil {
		return nil, "", err
	}
	digest, err := s.hasher.HashRefresh(refresh)
	if err != nil {
		return nil, "", err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, digest, nil
}
