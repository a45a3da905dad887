package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "alice", testSecret, 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserId)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "linka", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "alice", testSecret, 1)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "alice", testSecret, 1)
	require.NoError(t, err)

	t.Run("matching user id", func(t *testing.T) {
		claims, err := ValidateToken(token, testSecret, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserId)
	})

	t.Run("mismatched user id", func(t *testing.T) {
		_, err := ValidateToken(token, testSecret, 7)
		assert.Error(t, err)
	})
}
