package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/fiberdirekt/bankid-auth/sessions"
)

// SessionStatusHandler tells the frontend whether a usable session exists.
// It only reads the store — no provider call — so product pages can poll it
// cheaply.
func (s *Server) SessionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := s.store.Read(r.Context(), s.sessionTokenFromRequest(r))
		if err != nil {
			if errors.Is(err, sessions.ErrNoSession) {
				writeJSON(w, http.StatusOK, map[string]any{"hasActiveSession": false})
				return
			}
			// Internal store failure: generic message only, detail stays in
			// the logs
			log.Error().Err(err).Msg("session status read failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"hasActiveSession": false,
				"error":            "internal error",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"hasActiveSession": true})
	}
}

// SessionCancelHandler ends the current session. It always answers 200: the
// client-side cleanup (cookie removal) is what the caller needs, and any
// server-side failure is logged rather than surfaced.
func (s *Server) SessionCancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Cancel(r.Context(), s.sessionTokenFromRequest(r)); err != nil {
			log.Error().Err(err).Msg("session cancel cleanup failed")
		}
		s.ClearSessionCookie(w, r)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "session cleared"})
	}
}
