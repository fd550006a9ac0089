package bankid

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/fiberdirekt/bankid-auth/bankid/initiation"
	"github.com/fiberdirekt/bankid-auth/sessions"
)

// State is the orchestrator-level view of an authentication attempt:
// Idle -> Pending -> {Completed | Failed}, with Cancelled folding back to
// Idle from the caller's perspective.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Deps holds all collaborator dependencies for the Service.
type Deps struct {
	Store    sessions.Store      // Session persistence (one strategy per deployment)
	Provider Provider            // External identity-verification provider
	Tracker  *initiation.Tracker // Duplicate-initiation guard
}

// Service coordinates one browser's BankID authentication attempt across the
// dedup tracker, the session store and the external provider.
type Service struct {
	deps    Deps
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("[NewService] Store is required")
	}
	if deps.Provider == nil {
		return nil, errors.New("[NewService] Provider is required")
	}
	if deps.Tracker == nil {
		return nil, errors.New("[NewService] Tracker is required")
	}

	service := &Service{
		deps:    deps,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// StartResult is returned to the HTTP layer after a successful initiation.
// Token is the session token to hand to the browser; AutoStartToken lets the
// frontend launch the BankID app on the same device.
type StartResult struct {
	Token          string
	OrderRef       string
	AutoStartToken string
}

// Start begins an authentication attempt for a personal number. It fails
// with ErrAlreadyInProgress when a live initiation exists for the same
// person, and with ErrProviderFailure when the provider call fails — in
// which case no session is persisted and the dedup mark is rolled back.
func (s *Service) Start(ctx context.Context, personalNumber, endUserIP string) (*StartResult, error) {
	if err := s.deps.Tracker.Begin(personalNumber); err != nil {
		return nil, errors.Wrap(err, "[Service.Start] tracker.Begin")
	}

	initiated, err := s.deps.Provider.Initiate(ctx, personalNumber, endUserIP)
	if err != nil {
		s.deps.Tracker.Clear(personalNumber)
		return nil, errors.Wrap(err, "[Service.Start] provider.Initiate")
	}

	sessionToken, err := s.deps.Store.Start(ctx, sessions.Payload{
		PersonalNumber: personalNumber,
		OrderRef:       initiated.OrderRef,
		IssuedAt:       s.nowTime(),
	})
	if err != nil {
		s.deps.Tracker.Clear(personalNumber)
		s.cancelOrder(ctx, initiated.OrderRef)
		return nil, errors.Wrap(err, "[Service.Start] store.Start")
	}

	return &StartResult{
		Token:          sessionToken,
		OrderRef:       initiated.OrderRef,
		AutoStartToken: initiated.AutoStartToken,
	}, nil
}

// StatusResult is one poll of the current attempt. SessionEnded tells the
// HTTP layer the session token is no longer valid and the cookie should be
// cleared.
type StatusResult struct {
	State        State
	OrderRef     string
	User         *UserInfo
	SessionEnded bool
}

// Status reports the current state of the attempt bound to the session
// token. With no usable session it reports Idle. Terminal provider states
// clear the session and the dedup record, so the next poll reports Idle.
func (s *Service) Status(ctx context.Context, sessionToken string) (*StatusResult, error) {
	payload, err := s.deps.Store.Read(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, sessions.ErrNoSession) {
			return &StatusResult{State: StateIdle, SessionEnded: true}, nil
		}
		return nil, errors.Wrap(err, "[Service.Status] store.Read")
	}

	collected, err := s.deps.Provider.Collect(ctx, payload.OrderRef)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Status] provider.Collect")
	}

	result := &StatusResult{OrderRef: payload.OrderRef}
	switch collected.Status {
	case OrderPending:
		result.State = StatePending
	case OrderComplete:
		result.State = StateCompleted
		result.User = collected.User
		s.endAttempt(ctx, sessionToken, payload.PersonalNumber)
		result.SessionEnded = true
	case OrderFailed:
		result.State = StateFailed
		s.endAttempt(ctx, sessionToken, payload.PersonalNumber)
		result.SessionEnded = true
		log.Info().Str("hint", collected.HintCode).Msg("authentication order failed")
	default:
		return nil, errors.Errorf("[Service.Status] unexpected order status %q", collected.Status)
	}

	return result, nil
}

// Cancel aborts the attempt bound to the session token. Local state (dedup
// record, session) clears synchronously; the provider-side cancel is best
// effort and its failure is only logged. Cancelling with no session is a
// no-op, never an error.
func (s *Service) Cancel(ctx context.Context, sessionToken string) error {
	payload, err := s.deps.Store.Read(ctx, sessionToken)
	if err != nil {
		return nil // nothing to cancel
	}

	s.endAttempt(ctx, sessionToken, payload.PersonalNumber)
	s.cancelOrder(ctx, payload.OrderRef)
	return nil
}

// endAttempt clears the session record and the dedup mark. Failures here
// must not surface to the caller; they are logged for diagnosis.
func (s *Service) endAttempt(ctx context.Context, sessionToken, personalNumber string) {
	s.deps.Tracker.Clear(personalNumber)
	if err := s.deps.Store.Destroy(ctx, sessionToken); err != nil {
		log.Error().Err(err).Msg("failed to destroy session")
	}
}

func (s *Service) cancelOrder(ctx context.Context, orderRef string) {
	if err := s.deps.Provider.Cancel(ctx, orderRef); err != nil {
		log.Warn().Err(err).Str("orderRef", orderRef).Msg("provider cancel failed")
	}
}
