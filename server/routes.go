package server

import "net/http"

func (s *Server) initRoutes() {
	// BankID flow
	s.RegisterRouteHandler("POST "+RouteBankIDStart, ChainMiddleware(s.BankIDStartHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteBankIDStatus, ChainMiddleware(s.BankIDStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBankIDCancel, ChainMiddleware(s.BankIDCancelHandler(), s.APIMiddleware()...))

	// Session introspection
	s.RegisterRouteHandler("GET "+RouteSessionStatus, ChainMiddleware(s.SessionStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSessionCancel, ChainMiddleware(s.SessionCancelHandler(), s.APIMiddleware()...))

	// Supporting endpoints
	s.RegisterRouteHandler("GET "+RouteCSRFToken, ChainMiddleware(s.CSRFTokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePricingVAT, ChainMiddleware(s.VATQuoteHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, http.HandlerFunc(s.HealthHandler()))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}
