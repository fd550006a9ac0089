package bankid

import "context"

// OrderStatus is the provider-reported state of an initiated order.
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderComplete OrderStatus = "complete"
	OrderFailed   OrderStatus = "failed"
)

// InitiateResult is the provider's answer to a new authentication order.
type InitiateResult struct {
	OrderRef       string
	AutoStartToken string
}

// UserInfo identifies the authenticated person once an order completes.
type UserInfo struct {
	PersonalNumber string
	Name           string
	GivenName      string
	Surname        string
}

// CollectResult is one poll of an order's state. HintCode carries the
// provider's detail string (outstandingTransaction, userCancel, ...) and is
// for server-side logging only. User is set when Status is OrderComplete.
type CollectResult struct {
	Status   OrderStatus
	HintCode string
	User     *UserInfo
}

// Provider is the external identity-verification service. Implementations
// must bound every call with a timeout and fail closed rather than hang;
// transport and non-2xx failures are reported as ErrProviderFailure.
type Provider interface {
	// Initiate starts a new authentication order for a personal number.
	Initiate(ctx context.Context, personalNumber, endUserIP string) (*InitiateResult, error)

	// Collect polls the current state of an order.
	Collect(ctx context.Context, orderRef string) (*CollectResult, error)

	// Cancel aborts an in-flight order. Cancelling an unknown or finished
	// order is not an error.
	Cancel(ctx context.Context, orderRef string) error
}
