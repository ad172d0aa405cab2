package service

import (
	"context"
	"errors"

	"github.com/iliyamo/user-auth-service/internal/auth"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/repository"
)

// CredentialVerifier checks email/password pairs against the user store.
// It exposes two entry points for the two login flows: Verify returns the
// bare token identity, VerifyWithProfile additionally loads the username and
// profile for responses that echo them back.
type CredentialVerifier struct {
	users  repository.UserRepository
	hasher *auth.Hasher
}

func NewCredentialVerifier(users repository.UserRepository, hasher *auth.Hasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// VerifiedUser is the full projection returned by VerifyWithProfile.
type VerifiedUser struct {
	ID       uint64
	Email    string
	Username string
	Info     *model.UserInfo
}

// Verify returns the identity for a matching email/password pair.  An
// unknown email and a wrong password both map to ErrInvalidCredentials so
// the response does not reveal which part failed.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (model.Identity, error) {
	u, err := v.lookup(ctx, email, password)
	if err != nil {
		return model.Identity{}, err
	}
	return u.Identity(), nil
}

// VerifyWithProfile is Verify plus the username and user_info projection.
func (v *CredentialVerifier) VerifyWithProfile(ctx context.Context, email, password string) (*VerifiedUser, error) {
	u, err := v.lookup(ctx, email, password)
	if err != nil {
		return nil, err
	}
	info, err := v.users.GetInfo(ctx, u.UserInfoID)
	if err != nil {
		return nil, err
	}
	return &VerifiedUser{ID: u.ID, Email: u.Email, Username: u.Username, Info: info}, nil
}

func (v *CredentialVerifier) lookup(ctx context.Context, email, password string) (*model.User, error) {
	u, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !v.hasher.VerifyPassword(password, u.PasswordHash) {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}
