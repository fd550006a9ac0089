package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fiberdirekt/bankid-auth/token"
	"github.com/stretchr/testify/require"
)

const (
	testSecret         = "0123456789abcdef0123456789abcdef"
	testPersonalNumber = "198001011234"
	testOrderRef       = "ORD-1"
)

func TestCodecRoundTrip(t *testing.T) {
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	raw, err := codec.Encode(testPersonalNumber, testOrderRef, 10*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, testPersonalNumber, claims.PersonalNumber)
	require.Equal(t, testOrderRef, claims.OrderRef)
}

func TestCodecExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	codec, err := token.NewCodec(testSecret, token.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	raw, err := codec.Encode(testPersonalNumber, testOrderRef, 10*time.Minute)
	require.NoError(t, err)

	// Just inside the lifetime
	now = now.Add(9 * time.Minute)
	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, testOrderRef, claims.OrderRef)

	// Just past the lifetime
	now = now.Add(2 * time.Minute)
	_, err = codec.Decode(raw)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestCodecTamperedSignature(t *testing.T) {
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	raw, err := codec.Encode(testPersonalNumber, testOrderRef, 10*time.Minute)
	require.NoError(t, err)

	// Flip one byte in the signature segment
	dot := strings.LastIndex(raw, ".")
	require.Greater(t, dot, 0)
	tampered := []byte(raw)
	if tampered[dot+1] == 'A' {
		tampered[dot+1] = 'B'
	} else {
		tampered[dot+1] = 'A'
	}

	_, err = codec.Decode(string(tampered))
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestCodecWrongSecret(t *testing.T) {
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	other, err := token.NewCodec("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)

	raw, err := codec.Encode(testPersonalNumber, testOrderRef, 10*time.Minute)
	require.NoError(t, err)

	_, err = other.Decode(raw)
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestCodecMalformedToken(t *testing.T) {
	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	_, err = codec.Decode("not-a-token")
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	_, err := token.NewCodec("too-short")
	require.ErrorIs(t, err, token.ErrSecretTooShort)
}
