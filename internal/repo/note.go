package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
	"github.com/jmoiron/sqlx"
)

var noteColumns = []string{"id", "title", "content", "author_name", "author_email", "created_at", "updated_at"}

// noteRow is the flat column layout of the notes table.
type noteRow struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	AuthorName  string     `db:"author_name"`
	AuthorEmail string     `db:"author_email"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

func (r noteRow) model() models.Note {
	return models.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Author:    models.Author{Name: r.AuthorName, Email: r.AuthorEmail},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ========================
// REPOSITORY STRUCT
// ========================

type NoteRepo struct {
	DB *sqlx.DB
}

func NewNoteRepo(db *sqlx.DB) *NoteRepo {
	return &NoteRepo{DB: db}
}

// ========================
// CREATE NOTE
// ========================

// Create inserts a note; the id comes from the table's identity sequence.
func (r *NoteRepo) Create(ctx context.Context, n models.Note) (models.Note, error) {
	err := r.DB.QueryRowxContext(ctx,
		`INSERT INTO notes (title, content, author_name, author_email, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		n.Title, n.Content, n.Author.Name, n.Author.Email, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to create note: %w", err)
	}
	n.UpdatedAt = nil
	return n, nil
}

// ========================
// GET NOTE BY ID
// ========================

func (r *NoteRepo) GetByID(ctx context.Context, id int64) (models.Note, error) {
	query, args, err := psql.Select(noteColumns...).From("notes").Where("id = ?", id).ToSql()
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to build query: %w", err)
	}

	var row noteRow
	if err := r.DB.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, errs.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("failed to get note %d: %w", id, err)
	}
	return row.model(), nil
}

// ========================
// UPDATE NOTE BY ID
// ========================

func (r *NoteRepo) Update(ctx context.Context, n models.Note) (models.Note, error) {
	query, args, err := psql.Update("notes").
		Set("title", n.Title).
		Set("content", n.Content).
		Set("author_name", n.Author.Name).
		Set("author_email", n.Author.Email).
		Set("updated_at", n.UpdatedAt).
		Where("id = ?", n.ID).
		Suffix("RETURNING id, title, content, author_name, author_email, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to build query: %w", err)
	}

	var row noteRow
	if err := r.DB.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, errs.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("failed to update note %d: %w", n.ID, err)
	}
	return row.model(), nil
}

// ========================
// DELETE NOTE BY ID
// ========================

func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ========================
// LIST NOTES WITH PAGINATION
// ========================

// List returns notes in insertion (id) order, skipping offset and taking limit.
func (r *NoteRepo) List(ctx context.Context, limit, offset int) ([]models.Note, error) {
	query, args, err := psql.Select(noteColumns...).
		From("notes").
		OrderBy("id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []noteRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}

	notes := make([]models.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.model())
	}
	return notes, nil
}

// ========================
// COUNT NOTES
// ========================

func (r *NoteRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM notes`); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return n, nil
}
