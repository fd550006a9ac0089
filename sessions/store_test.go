package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/fiberdirekt/bankid-auth/sessions"
	"github.com/fiberdirekt/bankid-auth/token"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testPayload = sessions.Payload{
	PersonalNumber: "198001011234",
	OrderRef:       "ORD-1",
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore(sessions.DefaultLifetime)

	sessionID, err := store.Start(ctx, testPayload)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	payload, err := store.Read(ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, testPayload.PersonalNumber, payload.PersonalNumber)
	require.Equal(t, testPayload.OrderRef, payload.OrderRef)

	require.NoError(t, store.Destroy(ctx, sessionID))

	_, err = store.Read(ctx, sessionID)
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func TestMemoryStoreExpiredRecordIsInert(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore(time.Millisecond)

	sessionID, err := store.Start(ctx, testPayload)
	require.NoError(t, err)

	// The record expires well before the janitor's first sweep; Read must
	// already treat it as absent.
	time.Sleep(10 * time.Millisecond)
	_, err = store.Read(ctx, sessionID)
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore(sessions.DefaultLifetime)

	_, err := store.Read(ctx, "unknown")
	require.ErrorIs(t, err, sessions.ErrNoSession)
	require.NoError(t, store.Destroy(ctx, "unknown"))
}

func TestCookieStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	store, err := sessions.NewCookieStore(codec, sessions.DefaultLifetime)
	require.NoError(t, err)

	ticket, err := store.Start(ctx, testPayload)
	require.NoError(t, err)
	require.NotEmpty(t, ticket)

	payload, err := store.Read(ctx, ticket)
	require.NoError(t, err)
	require.Equal(t, testPayload.PersonalNumber, payload.PersonalNumber)
	require.Equal(t, testPayload.OrderRef, payload.OrderRef)
}

func TestCookieStoreInvalidTicket(t *testing.T) {
	ctx := context.Background()
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	store, err := sessions.NewCookieStore(codec, sessions.DefaultLifetime)
	require.NoError(t, err)

	_, err = store.Read(ctx, "garbage")
	require.ErrorIs(t, err, sessions.ErrNoSession)

	_, err = store.Read(ctx, "")
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func TestCookieStoreExpiredTicket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec, err := token.NewCodec(testSecret, token.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	store, err := sessions.NewCookieStore(codec, sessions.DefaultLifetime)
	require.NoError(t, err)

	ticket, err := store.Start(ctx, testPayload)
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = store.Read(ctx, ticket)
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func TestCookieStoreDestroyIsNoOp(t *testing.T) {
	ctx := context.Background()
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	store, err := sessions.NewCookieStore(codec, sessions.DefaultLifetime)
	require.NoError(t, err)

	ticket, err := store.Start(ctx, testPayload)
	require.NoError(t, err)

	// The ticket is self-contained: Destroy cannot invalidate it, the HTTP
	// layer clears the cookie instead.
	require.NoError(t, store.Destroy(ctx, ticket))
	_, err = store.Read(ctx, ticket)
	require.NoError(t, err)
}
