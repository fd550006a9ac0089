package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// BankID authentication flow
	RouteBankIDStart  = "/api/bankid/start"
	RouteBankIDStatus = "/api/bankid/status"
	RouteBankIDCancel = "/api/bankid/cancel"

	// Session introspection for the frontend
	RouteSessionStatus = "/api/session/status"
	RouteSessionCancel = "/api/session/cancel"

	// CSRF token issuance
	RouteCSRFToken = "/api/csrf-token"

	// Pricing helpers for product pages
	RoutePricingVAT = "/api/pricing/vat"

	// Operations
	RouteHealth = "/healthz"
)
