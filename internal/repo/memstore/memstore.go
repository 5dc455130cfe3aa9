// Package memstore keeps users, notes and audit entries in process memory.
// It satisfies the same store contracts as the postgres repositories and is
// used when STORE=memory and in tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
	"github.com/google/uuid"
)

// UserStore is an in-memory credential store.
type UserStore struct {
	mu    sync.RWMutex
	users []models.User
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, errs.ErrConflict
		}
	}
	created := *u
	created.CreatedAt = time.Now()
	s.users = append(s.users, created)
	return &created, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			c := u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			c := u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s *UserStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// NoteStore is an in-memory note store. Ids come from a counter that only
// grows, so a deleted id is never handed out again.
type NoteStore struct {
	mu     sync.RWMutex
	lastID int64
	notes  []models.Note
}

func NewNoteStore() *NoteStore {
	return &NoteStore{}
}

func (s *NoteStore) Create(_ context.Context, n models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	n.ID = s.lastID
	n.UpdatedAt = nil
	s.notes = append(s.notes, n)
	return n, nil
}

func (s *NoteStore) GetByID(_ context.Context, id int64) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], nil
	}
	return models.Note{}, errs.ErrNotFound
}

func (s *NoteStore) Update(_ context.Context, n models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(n.ID)
	if i < 0 {
		return models.Note{}, errs.ErrNotFound
	}
	cur := s.notes[i]
	cur.Title = n.Title
	cur.Content = n.Content
	cur.Author = n.Author
	cur.UpdatedAt = n.UpdatedAt
	s.notes[i] = cur
	return cur, nil
}

func (s *NoteStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errs.ErrNotFound
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return nil
}

// List returns notes in insertion order, skipping offset and taking limit.
func (s *NoteStore) List(_ context.Context, limit, offset int) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Note{}
	if offset < 0 || limit < 1 || offset >= len(s.notes) {
		return out, nil
	}
	end := offset + limit
	if end < offset || end > len(s.notes) {
		end = len(s.notes)
	}
	return append(out, s.notes[offset:end]...), nil
}

func (s *NoteStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes), nil
}

// indexOf must be called with mu held. Notes stay sorted by id.
func (s *NoteStore) indexOf(id int64) int {
	i := sort.Search(len(s.notes), func(i int) bool { return s.notes[i].ID >= id })
	if i < len(s.notes) && s.notes[i].ID == id {
		return i
	}
	return -1
}

// AuditStore is an in-memory audit log.
type AuditStore struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Log(_ context.Context, userID, action string, noteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, models.AuditEntry{
		ID:        int64(len(s.entries) + 1),
		UserID:    userID,
		Action:    action,
		NoteID:    noteID,
		CreatedAt: time.Now(),
	})
	return nil
}

// List returns entries newest first.
func (s *AuditStore) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.AuditEntry{}
	if offset < 0 {
		return out, nil
	}
	for i := len(s.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}
