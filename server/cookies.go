package server

import (
	"net/http"

	"github.com/fiberdirekt/bankid-auth/internal/csrf"
)

// SetSessionCookie stores the session token in the browser. SameSite is lax
// rather than strict so the cookie survives the redirect back from the
// BankID app on mobile devices.
func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionToken string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// ClearSessionCookie overwrites the session cookie with an expired one. For
// the stateless cookie store this is the only way to end a session early.
func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SetCSRFCookie stores the issued CSRF token for the double-submit check.
func (s *Server) SetCSRFCookie(w http.ResponseWriter, r *http.Request, csrfToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetCSRFCookieName(),
		Value:    csrfToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(csrf.TokenLifetime.Seconds()),
	})
}

// sessionTokenFromRequest reads the session token cookie; an absent cookie
// is an empty token, not an error.
func (s *Server) sessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(s.config.GetSessionCookieName())
	if err != nil {
		return ""
	}
	return cookie.Value
}
