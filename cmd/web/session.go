package main

import (
	"context"
	"net/http"
	"net/url"
)

const (
	cookieToken = "notehub_token"
	cookieName  = "notehub_name"
	cookieEmail = "notehub_email"
)

// session is what the browser holds after login.
type session struct {
	Token string
	Name  string
	Email string
}

func (s session) LoggedIn() bool { return s.Token != "" }

type sessionKey struct{}

func readSession(r *http.Request) session {
	var s session
	if c, err := r.Cookie(cookieToken); err == nil {
		s.Token = c.Value
	}
	if c, err := r.Cookie(cookieName); err == nil {
		s.Name, _ = url.QueryUnescape(c.Value)
	}
	if c, err := r.Cookie(cookieEmail); err == nil {
		s.Email, _ = url.QueryUnescape(c.Value)
	}
	return s
}

func writeSession(w http.ResponseWriter, s session) {
	set := func(name, value string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    url.QueryEscape(value),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	set(cookieToken, s.Token)
	set(cookieName, s.Name)
	set(cookieEmail, s.Email)
}

func clearSession(w http.ResponseWriter) {
	for _, name := range []string{cookieToken, cookieName, cookieEmail} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}

// requireSession sends visitors without a token to the login page.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := readSession(r)
		if !s.LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func sessionFrom(r *http.Request) session {
	if s, ok := r.Context().Value(sessionKey{}).(session); ok {
		return s
	}
	return readSession(r)
}
