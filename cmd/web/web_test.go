package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/crucial707/notehub/internal/apiclient"
	"github.com/crucial707/notehub/internal/handlers"
	"github.com/crucial707/notehub/internal/middleware"
	"github.com/crucial707/notehub/internal/models"
	"github.com/crucial707/notehub/internal/pagecache"
	"github.com/crucial707/notehub/internal/repo/memstore"
	"github.com/crucial707/notehub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newBackend serves the API routes the web client calls, over in-memory stores.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	users := memstore.NewUserStore()
	auth := service.NewAuthService(users, service.AuthOptions{Secret: []byte("web-test"), BcryptCost: bcrypt.MinCost})
	notes := service.NewNotesService(memstore.NewNoteStore(), users, memstore.NewAuditStore())
	noteH := &handlers.NoteHandler{Notes: notes}

	r := chi.NewRouter()
	r.Post("/users", (&handlers.UserHandler{Users: auth}).Register)
	r.Post("/login", (&handlers.AuthHandler{Auth: auth}).Login)
	r.Get("/notes", noteH.ListNotes)
	r.Get("/notes/{id}", noteH.GetNote)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(auth))
		r.Post("/notes", noteH.CreateNote)
		r.Put("/notes/{id}", noteH.UpdateNote)
		r.Delete("/notes/{id}", noteH.DeleteNote)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	a, err := newApp(apiclient.New(newBackend(t).URL), pagecache.New(0))
	require.NoError(t, err)
	return a
}

// browser replays cookies between requests the way a browser would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	b.h.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
		} else {
			b.cookies[c.Name] = c
		}
	}
	return rr
}

func (b *browser) registerAndLogin(name string) {
	b.t.Helper()
	rr := b.do("POST", "/register", url.Values{
		"create_user_form_name":     {name},
		"create_user_form_email":    {name + "@x.com"},
		"create_user_form_username": {name},
		"create_user_form_password": {"pw"},
	})
	require.Equal(b.t, http.StatusFound, rr.Code)
	assert.Equal(b.t, "/login?registered=1", rr.Header().Get("Location"))

	rr = b.do("POST", "/login", url.Values{"login_form_username": {name}, "login_form_password": {"pw"}})
	require.Equal(b.t, http.StatusFound, rr.Code)
	require.Contains(b.t, b.cookies, cookieToken)
}

func TestFormatTime(t *testing.T) {
	displayLocation = time.UTC
	t.Cleanup(func() { displayLocation = time.Local })

	assert.Equal(t, "05/01/2024, 3:04:05 PM", formatTime(time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "12/31/2023, 9:00:00 AM", formatTime(time.Date(2023, 12, 31, 9, 0, 0, 0, time.UTC)))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 3, totalPages(25, 10))
}

func TestViewOf_OwnerControls(t *testing.T) {
	updated := time.Now()
	n := models.Note{ID: 1, Content: "c", Author: models.Author{Name: "A", Email: "a@x.com"}, UpdatedAt: &updated}

	assert.True(t, viewOf(n, session{Token: "t", Email: "a@x.com"}).CanEdit)
	assert.False(t, viewOf(n, session{Token: "t", Email: "b@x.com"}).CanEdit)
	assert.False(t, viewOf(n, session{Email: "a@x.com"}).CanEdit)
	assert.NotEmpty(t, viewOf(n, session{}).UpdatedAt)
}

func TestWeb_RegisterLoginCreateDelete(t *testing.T) {
	a := newTestApp(t)
	h := a.routes()
	alice := newBrowser(t, h)

	rr := alice.do("GET", "/login?registered=1", nil)
	assert.Contains(t, rr.Body.String(), "Registration successful. You can now log in.")

	alice.registerAndLogin("alice")

	rr = alice.do("GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="logout"`)
	assert.Contains(t, rr.Body.String(), `name="add_new_note"`)
	assert.Equal(t, 1, a.cache.Len())

	rr = alice.do("POST", "/notes", url.Values{"title": {"New Note"}, "text_input_new_note": {"This is a new note."}})
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, 0, a.cache.Len())

	rr = alice.do("GET", "/", nil)
	body := rr.Body.String()
	assert.Contains(t, body, "New Note")
	assert.Contains(t, body, `name="delete-1"`)
	assert.Contains(t, body, `name="edit-1"`)

	bob := newBrowser(t, h)
	bob.registerAndLogin("bob")
	rr = bob.do("GET", "/", nil)
	assert.Contains(t, rr.Body.String(), "New Note")
	assert.NotContains(t, rr.Body.String(), `name="delete-1"`)

	rr = bob.do("POST", "/notes/1/delete", url.Values{})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = alice.do("POST", "/notes/1/delete", url.Values{})
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/?flash=Note+deleted", rr.Header().Get("Location"))
	rr = alice.do("GET", "/", nil)
	assert.NotContains(t, rr.Body.String(), "New Note")
}

func TestWeb_DeleteRedirectKeepsOnlyNumericPage(t *testing.T) {
	a := newTestApp(t)
	alice := newBrowser(t, a.routes())
	alice.registerAndLogin("alice")

	for i, tc := range []struct{ page, want string }{
		{"2", "/?flash=Note+deleted&page=2"},
		{"2&flash=owned", "/?flash=Note+deleted"},
		{"2\r\nX-Injected: 1", "/?flash=Note+deleted"},
		{"1", "/?flash=Note+deleted"},
	} {
		rr := alice.do("POST", "/notes", url.Values{"text_input_new_note": {"note"}})
		require.Equal(t, http.StatusFound, rr.Code)

		rr = alice.do("POST", fmt.Sprintf("/notes/%d/delete", i+1), url.Values{"page": {tc.page}})
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, tc.want, rr.Header().Get("Location"), tc.page)
		assert.Empty(t, rr.Header().Get("X-Injected"))
	}
}

func TestWeb_EditNote(t *testing.T) {
	h := newTestApp(t).routes()
	alice := newBrowser(t, h)
	alice.registerAndLogin("alice")
	require.Equal(t, http.StatusFound, alice.do("POST", "/notes", url.Values{"text_input_new_note": {"first"}}).Code)

	rr := alice.do("GET", "/notes/1/edit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "first")

	rr = alice.do("POST", "/notes/1/edit", url.Values{"title": {"T"}, "text_input-1": {"second"}, "author_name": {"Al"}})
	require.Equal(t, http.StatusFound, rr.Code)

	rr = alice.do("GET", "/", nil)
	body := rr.Body.String()
	assert.Contains(t, body, "second")
	assert.Contains(t, body, "By Al")
	assert.Contains(t, body, "(edited ")
}

func TestWeb_AnonymousVisitor(t *testing.T) {
	h := newTestApp(t).routes()
	anon := newBrowser(t, h)

	rr := anon.do("GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `name="add_new_note"`)

	rr = anon.do("POST", "/notes", url.Values{"text_input_new_note": {"x"}})
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestWeb_LoginFailureShowsMessage(t *testing.T) {
	h := newTestApp(t).routes()
	b := newBrowser(t, h)

	rr := b.do("POST", "/login", url.Values{"login_form_username": {"ghost"}, "login_form_password": {"pw"}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid username or password")
	assert.NotContains(t, b.cookies, cookieToken)
}

func TestWeb_Logout(t *testing.T) {
	h := newTestApp(t).routes()
	b := newBrowser(t, h)
	b.registerAndLogin("carol")

	rr := b.do("GET", "/logout", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Empty(t, b.cookies)
}

func TestWeb_OutOfBandWriteVisibleAfterTTL(t *testing.T) {
	api := apiclient.New(newBackend(t).URL)
	a, err := newApp(api, pagecache.New(100*time.Millisecond))
	require.NoError(t, err)
	alice := newBrowser(t, a.routes())
	alice.registerAndLogin("alice")

	rr := alice.do("GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, a.cache.Len())

	ctx := context.Background()
	login, err := api.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = api.CreateNote(ctx, login.Token, models.NoteInput{Content: "written from the cli"})
	require.NoError(t, err)

	rr = alice.do("GET", "/", nil)
	assert.NotContains(t, rr.Body.String(), "written from the cli")

	time.Sleep(150 * time.Millisecond)
	rr = alice.do("GET", "/", nil)
	assert.Contains(t, rr.Body.String(), "written from the cli")
	assert.LessOrEqual(t, defaultCacheTTL, 5*time.Second)
}
