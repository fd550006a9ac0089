package csrf_test

import (
	"testing"

	"github.com/fiberdirekt/bankid-auth/internal/csrf"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	first, err := csrf.GenerateToken()
	require.NoError(t, err)
	require.Len(t, first, 43) // 32 bytes, base64url without padding

	second, err := csrf.GenerateToken()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
