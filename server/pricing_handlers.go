package server

import (
	"net/http"
	"strconv"

	"github.com/fiberdirekt/bankid-auth/pricing"
)

// VATQuoteHandler splits an öre amount into net and VAT for price display.
// `direction=incl` treats the amount as VAT-inclusive (the default for
// consumer prices); `direction=excl` treats it as net.
func (s *Server) VATQuoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
		if err != nil || amount < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid amount"})
			return
		}

		var quote pricing.Quote
		switch r.URL.Query().Get("direction") {
		case "", "incl":
			quote = pricing.FromInclVAT(amount)
		case "excl":
			quote = pricing.FromExclVAT(amount)
		default:
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid direction"})
			return
		}

		writeJSON(w, http.StatusOK, quote)
	}
}
