package models

import "time"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Action    string    `json:"action" db:"action"` // create, update, delete
	NoteID    int64     `json:"noteId" db:"note_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
