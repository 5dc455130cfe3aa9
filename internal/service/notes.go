package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/metrics"
	"github.com/crucial707/notehub/internal/models"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// NotesService is the Notes API: public reads, authenticated writes that only
// the note's author may apply.
type NotesService struct {
	notes    NoteStore
	users    UserStore
	audit    AuditStore
	validate *validator.Validate
	now      func() time.Time
}

func NewNotesService(notes NoteStore, users UserStore, audit AuditStore) *NotesService {
	return &NotesService{
		notes:    notes,
		users:    users,
		audit:    audit,
		validate: newValidator(),
		now:      time.Now,
	}
}

// NormalizePage applies the list defaults to page and perPage values below 1
// and caps perPage at MaxPerPage.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// pageOffset returns the row offset of a normalized page. ok is false when
// the offset does not fit in an int; such a page is past any store's end.
func pageOffset(page, perPage int) (offset int, ok bool) {
	if page-1 > math.MaxInt/perPage {
		return 0, false
	}
	return (page - 1) * perPage, true
}

// List returns one page of notes in insertion order and the total count.
func (s *NotesService) List(ctx context.Context, page, perPage int) (models.NotePage, error) {
	page, perPage = NormalizePage(page, perPage)

	notes := []models.Note{}
	if offset, ok := pageOffset(page, perPage); ok {
		var err error
		notes, err = s.notes.List(ctx, perPage, offset)
		if err != nil {
			return models.NotePage{}, fmt.Errorf("list notes: %w", err)
		}
	}
	total, err := s.notes.Count(ctx)
	if err != nil {
		return models.NotePage{}, fmt.Errorf("count notes: %w", err)
	}
	return models.NotePage{Notes: notes, Total: total}, nil
}

func (s *NotesService) Get(ctx context.Context, id int64) (models.Note, error) {
	return s.notes.GetByID(ctx, id)
}

// Create stores a new note authored by the caller.
func (s *NotesService) Create(ctx context.Context, caller models.Identity, in models.NoteInput) (models.Note, error) {
	if err := validate(s.validate, in); err != nil {
		return models.Note{}, err
	}
	user, err := s.resolve(ctx, caller)
	if err != nil {
		return models.Note{}, err
	}
	author, err := authorFor(user, in.Author)
	if err != nil {
		return models.Note{}, err
	}

	note, err := s.notes.Create(ctx, models.Note{
		Title:     in.Title,
		Content:   in.Content,
		Author:    author,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}

	s.record(ctx, caller, models.ActionCreate, note.ID)
	return note, nil
}

// Update replaces title, content and author of a note the caller owns and
// stamps updatedAt.
func (s *NotesService) Update(ctx context.Context, caller models.Identity, id int64, in models.NoteInput) (models.Note, error) {
	if err := validate(s.validate, in); err != nil {
		return models.Note{}, err
	}
	existing, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	user, err := s.resolve(ctx, caller)
	if err != nil {
		return models.Note{}, err
	}
	if !owns(user, existing) {
		return models.Note{}, fmt.Errorf("%w: note %d belongs to another author", errs.ErrForbidden, id)
	}
	author, err := authorFor(user, in.Author)
	if err != nil {
		return models.Note{}, err
	}

	now := s.now().UTC()
	existing.Title = in.Title
	existing.Content = in.Content
	existing.Author = author
	existing.UpdatedAt = &now

	note, err := s.notes.Update(ctx, existing)
	if err != nil {
		return models.Note{}, err
	}

	s.record(ctx, caller, models.ActionUpdate, note.ID)
	return note, nil
}

// Delete removes a note the caller owns.
func (s *NotesService) Delete(ctx context.Context, caller models.Identity, id int64) error {
	existing, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user, err := s.resolve(ctx, caller)
	if err != nil {
		return err
	}
	if !owns(user, existing) {
		return fmt.Errorf("%w: note %d belongs to another author", errs.ErrForbidden, id)
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, caller, models.ActionDelete, id)
	return nil
}

// Audit lists recorded mutations, newest first.
func (s *NotesService) Audit(ctx context.Context, page, perPage int) ([]models.AuditEntry, error) {
	page, perPage = NormalizePage(page, perPage)
	offset, ok := pageOffset(page, perPage)
	if !ok {
		return []models.AuditEntry{}, nil
	}
	entries, err := s.audit.List(ctx, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return entries, nil
}

// resolve loads the user behind a verified token. A token for a user that no
// longer exists is treated as a bad token.
func (s *NotesService) resolve(ctx context.Context, caller models.Identity) (*models.User, error) {
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %s", errs.ErrForbidden, caller.ID)
		}
		return nil, err
	}
	return user, nil
}

func (s *NotesService) record(ctx context.Context, caller models.Identity, action string, noteID int64) {
	metrics.IncNoteWrites(action)
	if err := s.audit.Log(ctx, caller.ID.String(), action, noteID); err != nil {
		slog.WarnContext(ctx, "audit log failed", "action", action, "note_id", noteID, "error", err)
	}
}

// owns reports whether user may change n. Notes written without an author
// email are open to any authenticated user.
func owns(user *models.User, n models.Note) bool {
	return n.Author.Email == "" || n.Author.Email == user.Email
}

// authorFor builds the author snapshot written into a note. Callers may pick
// the display name but never someone else's email.
func authorFor(user *models.User, requested *models.Author) (models.Author, error) {
	author := models.Author{Name: user.Name, Email: user.Email}
	if requested == nil {
		return author, nil
	}
	if requested.Email != "" && requested.Email != user.Email {
		return models.Author{}, fmt.Errorf("%w: author email does not match the caller", errs.ErrForbidden)
	}
	if requested.Name != "" {
		author.Name = requested.Name
	}
	return author, nil
}
