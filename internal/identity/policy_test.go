// AngelaMos | 2026
// policy_test.go

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/config"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

func testPolicy(t *testing.T) *UsernamePolicy {
	t.Helper()

	policy, err := NewUsernamePolicy(config.SignupConfig{
		UsernamePattern:   `^[A-Za-z0-9_.@+-]+$`,
		ReservedUsernames: []string{"me"},
	})
	require.NoError(t, err)
	return policy
}

func TestUsernamePolicy_Valid(t *testing.T) {
	policy := testPolicy(t)

	for _, name := range []string{
		"alice",
		"bob_42",
		"user.name",
		"user@host",
		"a+b-c",
		"MEdia",
	} {
		assert.NoError(t, policy.Validate(name), name)
	}
}

func TestUsernamePolicy_ForbiddenCharacters(t *testing.T) {
	policy := testPolicy(t)

	for _, name := range []string{
		"has space",
		"emoji❤",
		"semi;colon",
		"",
	} {
		err := policy.Validate(name)
		require.Error(t, err, name)
		assert.True(t, core.IsAppError(err))
	}
}

func TestUsernamePolicy_Reserved(t *testing.T) {
	policy := testPolicy(t)

	for _, name := range []string{"me", "Me", "ME"} {
		err := policy.Validate(name)
		require.Error(t, err, name)
		assert.True(t, core.IsAppError(err))
	}
}

func TestNewUsernamePolicy_BadPattern(t *testing.T) {
	_, err := NewUsernamePolicy(config.SignupConfig{
		UsernamePattern: `[unclosed`,
	})
	assert.Error(t, err)
}
