package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/fiberdirekt/bankid-auth/bankid"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type startRequest struct {
	PersonalNumber string `json:"personalNumber"`
}

type startResponse struct {
	OrderRef       string `json:"orderRef"`
	AutoStartToken string `json:"autoStartToken"`
}

// BankIDStartHandler begins an authentication attempt and hands the browser
// its session cookie.
func (s *Server) BankIDStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
			return
		}
		if !validPersonalNumber(req.PersonalNumber) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid personal number"})
			return
		}

		started, err := s.auth.Start(r.Context(), req.PersonalNumber, clientIP(r))
		if err != nil {
			switch {
			case errors.Is(err, bankid.ErrAlreadyInProgress):
				writeJSON(w, http.StatusConflict, map[string]any{"error": "authentication already in progress"})
			case errors.Is(err, bankid.ErrProviderFailure):
				log.Error().Err(err).Msg("bankid start failed")
				writeJSON(w, http.StatusBadGateway, map[string]any{"error": "authentication service unavailable"})
			default:
				log.Error().Err(err).Msg("bankid start failed")
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			}
			return
		}

		s.SetSessionCookie(w, r, started.Token, int(s.config.GetSessionLifetime().Seconds()))
		writeJSON(w, http.StatusOK, startResponse{
			OrderRef:       started.OrderRef,
			AutoStartToken: started.AutoStartToken,
		})
	}
}

type statusResponse struct {
	State string `json:"state"`
	Name  string `json:"name,omitempty"`
}

// BankIDStatusHandler is polled by the browser until the attempt reaches a
// terminal state. The cookie is cleared as soon as the server-side session
// ends so the next poll is a cheap Idle.
func (s *Server) BankIDStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := s.auth.Status(r.Context(), s.sessionTokenFromRequest(r))
		if err != nil {
			if errors.Is(err, bankid.ErrProviderFailure) {
				log.Error().Err(err).Msg("bankid status poll failed")
				writeJSON(w, http.StatusBadGateway, map[string]any{"error": "authentication service unavailable"})
				return
			}
			log.Error().Err(err).Msg("bankid status poll failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}

		if status.SessionEnded {
			s.ClearSessionCookie(w, r)
		}

		resp := statusResponse{State: string(status.State)}
		if status.User != nil {
			resp.Name = status.User.Name
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// BankIDCancelHandler aborts the current attempt. It always reports success:
// clearing client-visible state is idempotent and safe even if server-side
// cleanup partially failed, and the details stay in the logs.
func (s *Server) BankIDCancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Cancel(r.Context(), s.sessionTokenFromRequest(r)); err != nil {
			log.Error().Err(err).Msg("bankid cancel cleanup failed")
		}
		s.ClearSessionCookie(w, r)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "authentication cancelled"})
	}
}

// validPersonalNumber checks the 12-digit YYYYMMDDNNNN form. Full Luhn and
// date validation belongs to the provider; this only rejects obvious junk
// before it reaches the dedup tracker.
func validPersonalNumber(personalNumber string) bool {
	if len(personalNumber) != 12 {
		return false
	}
	for _, c := range personalNumber {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First entry is the originating client
		if idx := strings.Index(forwarded, ","); idx != -1 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
