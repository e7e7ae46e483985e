// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode(t *testing.T) {
	code, err := GenerateConfirmationCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)

	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "code must be numeric, got %q", c)
	}
}

func TestGenerateConfirmationCode_Varies(t *testing.T) {
	seen := map[string]bool{}
	for range 20 {
		code, err := GenerateConfirmationCode(8)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat every time")
}

func TestHashAndVerifyCode(t *testing.T) {
	hash, err := HashCode("482913")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	valid, err := VerifyCode("482913", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyCode("482914", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashCode_UniqueSalt(t *testing.T) {
	h1, err := HashCode("111111")
	require.NoError(t, err)
	h2, err := HashCode("111111")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyCode_MalformedHash(t *testing.T) {
	_, err := VerifyCode("123456", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyCode("123456", "$bcrypt$v=19$m=1,t=1,p=1$abc$def")
	assert.Error(t, err)
}

func TestVerifyCodeTimingSafe(t *testing.T) {
	hash, err := HashCode("654321")
	require.NoError(t, err)

	valid, err := VerifyCodeTimingSafe("654321", &hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyCodeTimingSafe("000000", &hash)
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = VerifyCodeTimingSafe("654321", nil)
	require.NoError(t, err)
	assert.False(t, valid, "nil stored hash must never verify")

	empty := ""
	valid, err = VerifyCodeTimingSafe("654321", &empty)
	require.NoError(t, err)
	assert.False(t, valid)
}
