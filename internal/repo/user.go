package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sqlx.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, username, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	created := *u
	err := r.DB.QueryRowxContext(ctx, query, u.ID, u.Name, u.Email, u.Username, u.PasswordHash).
		Scan(&created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, name, email, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	if err := r.DB.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}

	return &user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	if err := r.DB.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return &user, nil
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
