package httpserver

import (
	"net/http"
	"strings"
	"time"

	"dashnotes/backend/internal/infrastructure/token"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "dash-token"

// SessionCookies stores session tokens in an HTTP-only cookie.
type SessionCookies struct {
	Name   string
	MaxAge int
	Secure bool
}

// NewSessionCookies returns the cookie policy for session tokens. secure should be false only in
// local development where the site is served over plain HTTP.
func NewSessionCookies(secure bool) SessionCookies {
	return SessionCookies{
		Name:   SessionCookieName,
		MaxAge: int(token.SessionDuration / time.Second),
		Secure: secure,
	}
}

// Attach sets the session cookie on the response.
func (c SessionCookies) Attach(w http.ResponseWriter, value string) {
	http.SetCookie(w, c.cookie(value, c.MaxAge))
}

// Clear expires the session cookie on the client. Copies of the token held elsewhere stay valid
// until they expire.
func (c SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

// Read returns the presented session token, preferring the cookie over a bearer header.
func (c SessionCookies) Read(r *http.Request) string {
	if cookie, err := r.Cookie(c.Name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractBearerToken(r.Header.Get("Authorization"))
}

func (c SessionCookies) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
