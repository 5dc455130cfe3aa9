package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/crucial707/notehub/internal/middleware"
	"github.com/crucial707/notehub/internal/models"
	"github.com/go-chi/chi/v5"
)

// TotalCountHeader carries the total number of notes on list responses.
const TotalCountHeader = "x-total-count"

// NotesAPI is the note service behind the /notes routes.
type NotesAPI interface {
	List(ctx context.Context, page, perPage int) (models.NotePage, error)
	Get(ctx context.Context, id int64) (models.Note, error)
	Create(ctx context.Context, caller models.Identity, in models.NoteInput) (models.Note, error)
	Update(ctx context.Context, caller models.Identity, id int64, in models.NoteInput) (models.Note, error)
	Delete(ctx context.Context, caller models.Identity, id int64) error
}

// ==========================
// NoteHandler
// ==========================
type NoteHandler struct {
	Notes NotesAPI
}

// ==========================
// List Notes (?_page=&_per_page=)
// ==========================
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	page, err := h.Notes.List(r.Context(), queryInt(r, "_page"), queryInt(r, "_per_page"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set(TotalCountHeader, strconv.Itoa(page.Total))
	writeJSON(w, http.StatusOK, page.Notes)
}

// ==========================
// Get Note
// ==========================
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	note, err := h.Notes.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// ==========================
// Create Note
// ==========================
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var input models.NoteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	note, err := h.Notes.Create(r.Context(), caller, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// ==========================
// Update Note
// ==========================
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "id") == "" {
		JSONError(w, MsgNoteIDRequired, http.StatusBadRequest)
		return
	}
	var input models.NoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	note, err := h.Notes.Update(r.Context(), caller, id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// ==========================
// Delete Note
// ==========================
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.Notes.Delete(r.Context(), caller, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// noteID parses the {id} path segment. An id that is not a number cannot
// name any note, so it is answered like a missing note.
func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, MsgNoteNotFound, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// callerFrom returns the identity placed in the context by RequireToken.
func callerFrom(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		JSONError(w, MsgUnauthorized, http.StatusUnauthorized)
	}
	return id, ok
}
