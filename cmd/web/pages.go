package main

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/notehub/internal/apiclient"
	"github.com/crucial707/notehub/internal/models"
	"github.com/go-chi/chi/v5"
)

const perPage = 10

// displayTimeLayout renders as e.g. "05/01/2024, 3:04:05 PM".
const displayTimeLayout = "01/02/2006, 3:04:05 PM"

var displayLocation = time.Local

// noteView is a note prepared for display.
type noteView struct {
	ID          int64
	Title       string
	Content     string
	AuthorName  string
	AuthorEmail string
	CreatedAt   string
	UpdatedAt   string
	CanEdit     bool
}

type pageData struct {
	Session session
	Flash   string
	Error   string

	Notes       []noteView
	Page        int
	TotalPages  int
	PrevPage    int
	NextPage    int
	PageNumbers []int

	Note     noteView
	Username string
	Form     models.RegisterRequest
}

func formatTime(t time.Time) string {
	return t.In(displayLocation).Format(displayTimeLayout)
}

func viewOf(n models.Note, s session) noteView {
	v := noteView{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		AuthorName:  n.Author.Name,
		AuthorEmail: n.Author.Email,
		CreatedAt:   formatTime(n.CreatedAt),
		CanEdit:     s.LoggedIn() && n.Author.Email != "" && n.Author.Email == s.Email,
	}
	if n.UpdatedAt != nil {
		v.UpdatedAt = formatTime(*n.UpdatedAt)
	}
	return v
}

// totalPages is ceil(total/size), never below 1.
func totalPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func (a *app) render(w http.ResponseWriter, status int, name string, data pageData) {
	t, ok := a.pages[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("template execute", "template", name, "error", err)
	}
}

// ==========================
// Note list
// ==========================
func (a *app) listNotes(w http.ResponseWriter, r *http.Request) {
	s := readSession(r)
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	data := pageData{Session: s, Page: page, Flash: r.URL.Query().Get("flash")}
	p, ok := a.cache.Get(page)
	if !ok {
		p, err = a.api.ListNotes(r.Context(), page, perPage)
		if err != nil {
			slog.Error("list notes", "page", page, "error", err)
			data.Error = "Could not load notes: " + apiMessage(err)
			data.TotalPages = 1
			a.render(w, http.StatusBadGateway, "notes.html", data)
			return
		}
		a.cache.Put(page, p)
	}

	for _, n := range p.Notes {
		data.Notes = append(data.Notes, viewOf(n, s))
	}
	data.TotalPages = totalPages(p.Total, perPage)
	data.PrevPage = page - 1
	data.NextPage = page + 1
	for i := 1; i <= data.TotalPages; i++ {
		data.PageNumbers = append(data.PageNumbers, i)
	}
	a.render(w, http.StatusOK, "notes.html", data)
}

// ==========================
// Login / Register / Logout
// ==========================
func (a *app) loginForm(w http.ResponseWriter, r *http.Request) {
	data := pageData{Session: readSession(r)}
	if r.URL.Query().Get("registered") != "" {
		data.Flash = "Registration successful. You can now log in."
	}
	a.render(w, http.StatusOK, "login.html", data)
}

func (a *app) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("login_form_username"))
	password := r.FormValue("login_form_password")

	resp, err := a.api.Login(r.Context(), username, password)
	if err != nil {
		a.render(w, http.StatusOK, "login.html", pageData{Username: username, Error: apiMessage(err)})
		return
	}

	writeSession(w, session{Token: resp.Token, Name: resp.Name, Email: resp.Email})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) registerForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, "register.html", pageData{Session: readSession(r)})
}

func (a *app) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.RegisterRequest{
		Name:     strings.TrimSpace(r.FormValue("create_user_form_name")),
		Email:    strings.TrimSpace(r.FormValue("create_user_form_email")),
		Username: strings.TrimSpace(r.FormValue("create_user_form_username")),
		Password: r.FormValue("create_user_form_password"),
	}

	if _, err := a.api.Register(r.Context(), form); err != nil {
		form.Password = ""
		a.render(w, http.StatusOK, "register.html", pageData{Form: form, Error: apiMessage(err)})
		return
	}
	http.Redirect(w, r, "/login?registered=1", http.StatusFound)
}

func (a *app) logout(w http.ResponseWriter, r *http.Request) {
	clearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Note writes
// ==========================
func (a *app) createNote(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := models.NoteInput{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("text_input_new_note"),
	}
	if _, err := a.api.CreateNote(r.Context(), s.Token, in); err != nil {
		a.writeFailed(w, r, err, false)
		return
	}
	a.cache.Clear()
	http.Redirect(w, r, "/?flash=Note+added", http.StatusFound)
}

func (a *app) editForm(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := a.api.GetNote(r.Context(), id)
	if err != nil {
		a.writeFailed(w, r, err, true)
		return
	}
	v := viewOf(n, s)
	if !v.CanEdit {
		http.Error(w, "only the author can edit this note", http.StatusForbidden)
		return
	}
	a.render(w, http.StatusOK, "edit.html", pageData{Session: s, Note: v})
}

func (a *app) updateNote(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := models.NoteInput{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("text_input-" + strconv.FormatInt(id, 10)),
	}
	if name := strings.TrimSpace(r.FormValue("author_name")); name != "" {
		in.Author = &models.Author{Name: name, Email: s.Email}
	}
	if _, err := a.api.UpdateNote(r.Context(), s.Token, id, in); err != nil {
		a.writeFailed(w, r, err, true)
		return
	}
	a.cache.Clear()
	http.Redirect(w, r, "/?flash=Note+updated", http.StatusFound)
}

func (a *app) deleteNote(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.api.DeleteNote(r.Context(), s.Token, id); err != nil {
		a.writeFailed(w, r, err, true)
		return
	}
	a.cache.Clear()
	q := url.Values{"flash": {"Note deleted"}}
	if page, err := strconv.Atoi(r.FormValue("page")); err == nil && page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusFound)
}

// writeFailed handles an API error on a write. A rejected token ends the
// session; on an existing note a 403 means the caller is not its author.
// Other errors go back to the list with the API's message.
func (a *app) writeFailed(w http.ResponseWriter, r *http.Request, err error, existing bool) {
	switch status := apiclient.StatusOf(err); {
	case status == http.StatusForbidden && existing:
		http.Error(w, "only the author can change this note", http.StatusForbidden)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		clearSession(w)
		http.Redirect(w, r, "/login", http.StatusFound)
	case status == http.StatusNotFound:
		http.Error(w, "note not found", http.StatusNotFound)
	default:
		slog.Error("note write failed", "path", r.URL.Path, "error", err)
		data := pageData{Session: readSession(r), Error: apiMessage(err), TotalPages: 1}
		a.render(w, http.StatusBadGateway, "notes.html", data)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "note not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// apiMessage returns the message the API sent, or the transport error text.
func apiMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
