package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

var userRows = []string{"id", "email", "username", "password_hash", "refresh_token_hash", "user_info_id", "created_at", "updated_at"}

func TestCreateInsertsUserAndInfo(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_info () VALUES ()")).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, username, password_hash, user_info_id) VALUES (?,?,?,?)")).
		WithArgs("a@x.com", "alice", "digest", int64(5)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	u, err := repo.Create(context.Background(), "  A@X.com ", "alice", "digest")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, uint64(5), u.UserInfoID)
	assert.Nil(t, u.RefreshTokenHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_info () VALUES ()")).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'uq_users_email'"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), "a@x.com", "alice", "digest")
	assert.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,email,username,password_hash,refresh_token_hash,user_info_id,created_at,updated_at FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow(9, "a@x.com", "alice", "digest", "refresh-digest", 5, now, now))

	u, err := repo.GetByEmail(context.Background(), "A@X.com")
	require.NoError(t, err)
	require.NotNil(t, u.RefreshTokenHash)
	assert.Equal(t, "refresh-digest", *u.RefreshTokenHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows(userRows))

	_, err := repo.GetByEmail(context.Background(), "b@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNullDigest(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow(9, "a@x.com", "alice", "digest", nil, 5, now, now))

	u, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, u.RefreshTokenHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRefreshDigest(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token_hash=? WHERE email=?")).
		WithArgs("digest", "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetRefreshDigest(context.Background(), "a@x.com", "digest"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRefreshDigestUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash=").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRefreshDigest(context.Background(), "b@x.com", "digest")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearRefreshDigestIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Zero affected rows is success: there was no active session to clear.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token_hash=NULL WHERE email=? AND refresh_token_hash IS NOT NULL")).
		WithArgs("a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ClearRefreshDigest(context.Background(), "a@x.com"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRefreshDigest(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token_hash=? WHERE email=? AND refresh_token_hash=?")).
		WithArgs("new", "a@x.com", "old").
		WillReturnResult(sqlmock.NewResult(0, 1))

	swapped, err := repo.SwapRefreshDigest(context.Background(), "a@x.com", "old", "new")
	require.NoError(t, err)
	assert.True(t, swapped)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRefreshDigestStaleRead(t *testing.T) {
	repo, mock := newMockRepo(t)

	// A concurrent transition already replaced the digest; the CAS must
	// report failure rather than overwrite.
	mock.ExpectExec("UPDATE users SET refresh_token_hash=").
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapped, err := repo.SwapRefreshDigest(context.Background(), "a@x.com", "old", "new")
	require.NoError(t, err)
	assert.False(t, swapped)
	require.NoError(t, mock.ExpectationsWereMet())
}
