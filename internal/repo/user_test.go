package repo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var userColumns = []string{"id", "name", "email", "username", "password_hash", "created_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(id, name, email, username, password_hash\)`).
		WithArgs(id, "Alice", "a@x.com", "alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewUserRepo(db)
	user, err := repo.Create(context.Background(), &models.User{
		ID: id, Name: "Alice", Email: "a@x.com", Username: "alice", PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != id || user.Username != "alice" || !user.CreatedAt.Equal(now) {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Create_Conflict(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	repo := NewUserRepo(db)
	_, err := repo.Create(context.Background(), &models.User{ID: uuid.New(), Username: "alice"})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, email, username, password_hash, created_at`).
		WithArgs("charlie").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "Charlie", "c@x.com", "charlie", "hash", time.Now()))

	repo := NewUserRepo(db)
	user, err := repo.GetByUsername(context.Background(), "charlie")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if user.ID != id || user.Email != "c@x.com" || user.PasswordHash != "hash" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id, name, email, username, password_hash, created_at`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepo(db)
	_, err := repo.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "Bob", "b@x.com", "bob", "hash", time.Now()))

	repo := NewUserRepo(db)
	user, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Username != "bob" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Count(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := NewUserRepo(db).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}
