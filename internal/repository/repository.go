package repository

import (
	"context"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// UserRepository is the abstract user-record store the session subsystem
// runs against. The MySQL implementation lives in this package; tests
// substitute fakes.
//
// The refresh-digest methods are the only mutable shared state in the
// system. SwapRefreshDigest is the atomic compare-and-set used by rotation:
// it replaces the stored digest only if it still equals the value the
// caller read, so two interleaved rotations cannot both succeed against a
// stale read.
type UserRepository interface {
	// Create inserts a user together with an empty user_info row and
	// returns the stored record. Returns ErrEmailExists on a duplicate
	// email.
	Create(ctx context.Context, email, username, passwordHash string) (*model.User, error)
	// GetByEmail fetches a user by normalized email. Returns ErrNotFound
	// when no such user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID fetches a user by primary key. Returns ErrNotFound when no
	// such user exists.
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	// GetInfo fetches a user_info row by primary key.
	GetInfo(ctx context.Context, infoID uint64) (*model.UserInfo, error)
	// UpdateInfo sets the non-nil fields of a user_info row.
	UpdateInfo(ctx context.Context, infoID uint64, address, photo *string) error
	// SetRefreshDigest unconditionally overwrites the stored refresh
	// fingerprint for the user (login path; any prior session is
	// implicitly invalidated).
	SetRefreshDigest(ctx context.Context, email, digest string) error
	// ClearRefreshDigest nulls the stored fingerprint (logout path).
	// Clearing an already-clear digest succeeds silently.
	ClearRefreshDigest(ctx context.Context, email string) error
	// SwapRefreshDigest replaces oldDigest with newDigest in a single
	// atomic update keyed on the previous value. It reports whether the
	// swap happened; false means a concurrent transition already consumed
	// the session.
	SwapRefreshDigest(ctx context.Context, email, oldDigest, newDigest string) (bool, error)
}
