package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fiberdirekt/bankid-auth/internal/csrf"
)

// CSRFTokenHandler issues a fresh CSRF token and mirrors it into a strict
// httpOnly cookie for the double-submit check.
func (s *Server) CSRFTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		csrfToken, err := csrf.GenerateToken()
		if err != nil {
			log.Error().Err(err).Msg("csrf token generation failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}

		s.SetCSRFCookie(w, r, csrfToken)
		writeJSON(w, http.StatusOK, map[string]any{
			"token":   csrfToken,
			"message": "csrf token issued",
		})
	}
}
