// AngelaMos | 2026
// policy.go

package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carterperez-dev/reviewboard/internal/config"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

// UsernamePolicy holds the allowed-character pattern and the reserved
// name list. Built once from config at startup; immutable afterwards.
type UsernamePolicy struct {
	pattern  *regexp.Regexp
	reserved map[string]struct{}
}

func NewUsernamePolicy(cfg config.SignupConfig) (*UsernamePolicy, error) {
	pattern, err := regexp.Compile(cfg.UsernamePattern)
	if err != nil {
		return nil, fmt.Errorf("compile username pattern: %w", err)
	}

	reserved := make(map[string]struct{}, len(cfg.ReservedUsernames))
	for _, name := range cfg.ReservedUsernames {
		reserved[strings.ToLower(name)] = struct{}{}
	}

	return &UsernamePolicy{
		pattern:  pattern,
		reserved: reserved,
	}, nil
}

func (p *UsernamePolicy) Validate(username string) error {
	if !p.pattern.MatchString(username) {
		return core.ValidationError(map[string]string{
			"username": "contains forbidden characters",
		})
	}

	if _, ok := p.reserved[strings.ToLower(username)]; ok {
		return core.ValidationError(map[string]string{
			"username": fmt.Sprintf("%q is not allowed", username),
		})
	}

	return nil
}
