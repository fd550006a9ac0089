package bankid_test

import (
	"context"
	"testing"
	"time"

	"github.com/fiberdirekt/bankid-auth/bankid"
	"github.com/fiberdirekt/bankid-auth/bankid/initiation"
	"github.com/fiberdirekt/bankid-auth/bankid/providerfakes"
	"github.com/fiberdirekt/bankid-auth/sessions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	testPersonalNumber = "198001011234"
	testEndUserIP      = "192.0.2.10"
)

// testFixture holds all test dependencies
type testFixture struct {
	provider *providerfakes.FakeProvider
	store    sessions.Store
	tracker  *initiation.Tracker
	service  *bankid.Service
	now      time.Time
}

// setupTestFixture creates a service on a memory store, a fake provider and
// a tracker with a simulated clock.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		provider: providerfakes.NewFakeProvider(),
		store:    sessions.NewMemoryStore(sessions.DefaultLifetime),
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.tracker = initiation.New(initiation.WithNowTime(func() time.Time { return f.now }))

	service, err := bankid.NewService(bankid.Deps{
		Store:    f.store,
		Provider: f.provider,
		Tracker:  f.tracker,
	}, bankid.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.service = service
	return f
}

func TestStartCreatesPendingSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)
	require.Equal(t, "ORD-1", started.OrderRef)
	require.NotEmpty(t, started.Token)
	require.NotEmpty(t, started.AutoStartToken)

	status, err := f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StatePending, status.State)
	require.False(t, status.SessionEnded)
}

func TestStartRejectsDuplicateInitiation(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)

	_, err = f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.ErrorIs(t, err, bankid.ErrAlreadyInProgress)

	// After the staleness window the retry goes through
	f.now = f.now.Add(31 * time.Second)
	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)
	require.Equal(t, "ORD-2", started.OrderRef)
}

func TestStartProviderFailureRollsBack(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.provider.InitiateErr = errors.Wrap(bankid.ErrProviderFailure, "connect timeout")

	_, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.ErrorIs(t, err, bankid.ErrProviderFailure)

	// No session persisted and the dedup mark is cleared, so an immediate
	// retry is allowed
	require.False(t, f.tracker.HasOngoing(testPersonalNumber))
	f.provider.InitiateErr = nil
	_, err = f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)
}

func TestStatusWithoutSessionIsIdle(t *testing.T) {
	f := setupTestFixture(t)

	status, err := f.service.Status(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, bankid.StateIdle, status.State)
	require.True(t, status.SessionEnded)
}

func TestStatusCompletionClearsSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)

	status, err := f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StatePending, status.State)

	f.provider.SetStatus(started.OrderRef, bankid.OrderComplete, "")

	status, err = f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StateCompleted, status.State)
	require.True(t, status.SessionEnded)
	require.NotNil(t, status.User)
	require.Equal(t, testPersonalNumber, status.User.PersonalNumber)

	// Terminal state cleared session and dedup record
	status, err = f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StateIdle, status.State)
	require.False(t, f.tracker.HasOngoing(testPersonalNumber))
}

func TestStatusFailureClearsSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)

	f.provider.SetStatus(started.OrderRef, bankid.OrderFailed, "userCancel")

	status, err := f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StateFailed, status.State)
	require.True(t, status.SessionEnded)

	// Person can start over immediately
	_, err = f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)
}

func TestStatusProviderFailureKeepsSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)

	f.provider.CollectErr = errors.Wrap(bankid.ErrProviderFailure, "503")
	_, err = f.service.Status(ctx, started.Token)
	require.ErrorIs(t, err, bankid.ErrProviderFailure)

	// A transient poll failure must not end the attempt
	f.provider.CollectErr = nil
	status, err := f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StatePending, status.State)
}

func TestCancelClearsStateAndNotifiesProvider(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)

	require.NoError(t, f.service.Cancel(ctx, started.Token))
	require.Equal(t, []string{started.OrderRef}, f.provider.Cancelled)
	require.False(t, f.tracker.HasOngoing(testPersonalNumber))

	status, err := f.service.Status(ctx, started.Token)
	require.NoError(t, err)
	require.Equal(t, bankid.StateIdle, status.State)
}

func TestCancelWithoutSessionIsNoOp(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.service.Cancel(context.Background(), ""))
	require.NoError(t, f.service.Cancel(context.Background(), "stale-token"))
}

func TestCancelSucceedsWhenProviderCancelFails(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.Start(ctx, testPersonalNumber, testEndUserIP)
	require.NoError(t, err)

	// Local cleanup happens regardless of provider acknowledgment
	f.provider.CancelErr = errors.Wrap(bankid.ErrProviderFailure, "timeout")
	require.NoError(t, f.service.Cancel(ctx, started.Token))
	require.False(t, f.tracker.HasOngoing(testPersonalNumber))
}
