package middleware

import (
	"net/http"
)

const (
	// APIContentSecurityPolicy forbids everything; JSON responses load nothing.
	APIContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
	// PageContentSecurityPolicy allows the web client's own inline styles and forms.
	PageContentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"
)

// SecurityHeaders sets common security response headers with the given
// Content-Security-Policy. hsts adds Strict-Transport-Security for HTTPS listeners.
func SecurityHeaders(csp string, hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "same-origin")
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			if hsts {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
