// AngelaMos | 2026
// security_test.go

package core

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, rehash, err := VerifyPasswordTimingSafe("anything", nil)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rehash)
}

func TestVerifyPasswordWithRehashUpgradesWeakParams(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte("secret1"), salt, 1, 1024, 1, argonKeyLen)
	weak := fmt.Sprintf(
		"$argon2id$v=%d$m=1024,t=1,p=1$%s$%s",
		argon2.Version,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	ok, rehash, err := VerifyPasswordWithRehash("secret1", weak)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, rehash)
	assert.False(t, needsRehash(rehash))

	ok, rehash, err = VerifyPasswordWithRehash("wrong", weak)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rehash)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$@@")
	assert.Error(t, err)

	_, err = VerifyPassword("x", "$2a$10$bcrypt")
	assert.Error(t, err)
}

func TestGenerateNumericCode(t *testing.T) {
	for range 50 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestGenerateSecureTokenIsURLSafe(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "=")
}
