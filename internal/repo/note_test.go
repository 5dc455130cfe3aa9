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
)

var noteRowColumns = []string{"id", "title", "content", "author_name", "author_email", "created_at", "updated_at"}

func TestNoteRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notes \(title, content, author_name, author_email, created_at\)`).
		WithArgs("t", "hello", "A", "a@x.com", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	repo := NewNoteRepo(db)
	note, err := repo.Create(context.Background(), models.Note{
		Title: "t", Content: "hello", Author: models.Author{Name: "A", Email: "a@x.com"}, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.ID != 1 || note.UpdatedAt != nil || note.Content != "hello" {
		t.Errorf("unexpected note: %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 10, 23, 10, 15, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, content, author_name, author_email, created_at, updated_at FROM notes WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(noteRowColumns).AddRow(7, "t", "c", "A", "a@x.com", created, nil))

	note, err := NewNoteRepo(db).GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if note.ID != 7 || note.Author.Email != "a@x.com" || note.UpdatedAt != nil || !note.CreatedAt.Equal(created) {
		t.Errorf("unexpected note: %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM notes WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewNoteRepo(db).GetByID(context.Background(), 999)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestNoteRepo_Update(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Now().Add(-time.Hour)
	updated := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE notes SET title = $1, content = $2, author_name = $3, author_email = $4, updated_at = $5 WHERE id = $6 RETURNING`)).
		WithArgs("", "hi", "A", "a@x.com", updated, int64(1)).
		WillReturnRows(sqlmock.NewRows(noteRowColumns).AddRow(1, "", "hi", "A", "a@x.com", created, updated))

	note, err := NewNoteRepo(db).Update(context.Background(), models.Note{
		ID: 1, Content: "hi", Author: models.Author{Name: "A", Email: "a@x.com"}, UpdatedAt: &updated,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if note.Content != "hi" || note.UpdatedAt == nil || !note.CreatedAt.Equal(created) {
		t.Errorf("unexpected note: %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE notes SET`).WillReturnError(sql.ErrNoRows)

	_, err := NewNoteRepo(db).Update(context.Background(), models.Note{ID: 5, Content: "x", UpdatedAt: &now})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestNoteRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notes WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notes WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewNoteRepo(db)
	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), 1); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_List(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, content, author_name, author_email, created_at, updated_at FROM notes ORDER BY id LIMIT 10 OFFSET 10`)).
		WillReturnRows(sqlmock.NewRows(noteRowColumns).
			AddRow(11, "", "eleven", "A", "a@x.com", now, nil).
			AddRow(12, "", "twelve", "A", "a@x.com", now, now))

	notes, err := NewNoteRepo(db).List(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != 11 || notes[1].UpdatedAt == nil {
		t.Errorf("unexpected notes: %+v", notes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Count(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM notes`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := NewNoteRepo(db).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 42 {
		t.Errorf("Count: got %d, want 42", n)
	}
}
