package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// UserRepo is the MySQL-backed UserRepository.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var _ UserRepository = (*UserRepo)(nil)

// Create inserts an empty user_info row and the user referencing it inside
// one transaction, so a failed user insert never leaves an orphan profile.
func (r *UserRepo) Create(ctx context.Context, email, username, passwordHash string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "INSERT INTO user_info () VALUES ()")
	if err != nil {
		return nil, err
	}
	infoID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, user_info_id) VALUES (?,?,?,?)",
		email, username, passwordHash, infoID)
	if err != nil {
		// MySQL error 1062: duplicate entry for the unique email key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &model.User{
		ID:           uint64(id),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		UserInfoID:   uint64(infoID),
	}, nil
}

const userColumns = "id,email,username,password_hash,refresh_token_hash,user_info_id,created_at,updated_at"

func (r *UserRepo) scanUser(row *sql.Row) (*model.User, error) {
	var (
		u      model.User
		digest sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &digest,
		&u.UserInfoID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if digest.Valid {
		u.RefreshTokenHash = &digest.String
	}
	return &u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetInfo fetches a user_info row.
func (r *UserRepo) GetInfo(ctx context.Context, infoID uint64) (*model.UserInfo, error) {
	var (
		info    model.UserInfo
		address sql.NullString
		photo   sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,address,photo FROM user_info WHERE id=? LIMIT 1", infoID).
		Scan(&info.ID, &address, &photo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if address.Valid {
		info.Address = &address.String
	}
	if photo.Valid {
		info.Photo = &photo.String
	}
	return &info, nil
}

// UpdateInfo sets the provided fields of a user_info row; nil fields keep
// their current value.
func (r *UserRepo) UpdateInfo(ctx context.Context, infoID uint64, address, photo *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user_info SET address=COALESCE(?,address), photo=COALESCE(?,photo) WHERE id=?",
		address, photo, infoID)
	return err
}

// SetRefreshDigest overwrites the stored refresh fingerprint.
func (r *UserRepo) SetRefreshDigest(ctx context.Context, email, digest string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE email=?", digest, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearRefreshDigest nulls the stored refresh fingerprint. Idempotent: a
// user with no active session is left unchanged and no error is returned.
func (r *UserRepo) ClearRefreshDigest(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=NULL WHERE email=? AND refresh_token_hash IS NOT NULL",
		email)
	return err
}

// SwapRefreshDigest performs the rotation compare-and-set in one statement.
// The WHERE clause keys on the digest the caller read, so the update matches
// zero rows if another rotation, login or logout got there first.
func (r *UserRepo) SwapRefreshDigest(ctx context.Context, email, oldDigest, newDigest string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE email=? AND refresh_token_hash=?",
		newDigest, email, oldDigest)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
