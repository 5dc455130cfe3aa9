package repo

import (
	"context"
	"fmt"

	"github.com/crucial707/notehub/internal/models"
	"github.com/jmoiron/sqlx"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sqlx.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. action is create|update|delete.
func (r *AuditRepo) Log(ctx context.Context, userID, action string, noteID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, note_id) VALUES ($1, $2, $3)`,
		userID, action, noteID,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// List returns recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	query, args, err := psql.Select("id", "user_id", "action", "note_id", "created_at").
		From("audit_log").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	entries := []models.AuditEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	return entries, nil
}
