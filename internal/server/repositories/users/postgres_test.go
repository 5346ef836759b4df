package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dbelyaev/recapd/internal/common"
	"github.com/dbelyaev/recapd/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id\s*$`
	rows := sqlmock.NewRows([]string{"id"}).AddRow("u-42")
	mock.ExpectQuery(q).
		WithArgs("alice@example.com", []byte("hash")).
		WillReturnRows(rows)

	u := &models.User{Email: "alice@example.com", PasswordHash: []byte("hash")}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("alice@example.com", []byte("hash")).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com", PasswordHash: []byte("hash")})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash"}).
		AddRow("u-1", "alice@example.com", []byte("hash"))
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash\s+FROM\s+users\s+WHERE\s+email=\$1`).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash\s+FROM\s+users`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
