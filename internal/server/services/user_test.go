package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dbelyaev/recapd/internal/common"
	"github.com/dbelyaev/recapd/internal/server/config"
	"github.com/dbelyaev/recapd/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
	return NewUserService(db, repomanager.NewPostgresRepositoryManager(), cfg), mock, db
}

func TestRegister_Success(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	u, err := svc.Register(context.Background(), "Alice@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("password123")))
}

func TestRegister_Validation(t *testing.T) {
	svc, _, db := newUserService(t)
	defer db.Close()

	_, err := svc.Register(context.Background(), "not-an-email", "password123")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.Register(context.Background(), "a@b.c", "short")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_Success(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash\s+FROM\s+users`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).
			AddRow("u-1", "alice@example.com", hash))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+refresh_tokens`).
		WithArgs(sqlmock.AnyArg(), "u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pair, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash\s+FROM\s+users`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).
			AddRow("u-1", "alice@example.com", hash))

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash\s+FROM\s+users`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_RotatesInTransaction(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+token,\s*user_id,\s*expires\s+FROM\s+refresh_tokens`).
		WithArgs("old-token").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires"}).
			AddRow("old-token", "u-1", time.Now().Add(time.Hour)))

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+refresh_tokens`).
		WithArgs("old-token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+refresh_tokens`).
		WithArgs(sqlmock.AnyArg(), "u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	pair, err := svc.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Expired(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+token,\s*user_id,\s*expires\s+FROM\s+refresh_tokens`).
		WithArgs("old-token").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires"}).
			AddRow("old-token", "u-1", time.Now().Add(-time.Minute)))

	_, err := svc.RefreshToken(context.Background(), "old-token")
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}
