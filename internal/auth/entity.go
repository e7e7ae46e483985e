// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// ConfirmationCode is the single-use signup credential. Only the
// Argon2id hash of the code is stored; the cleartext goes out by email
// and is never persisted.
type ConfirmationCode struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	CodeHash   string     `db:"code_hash"`
	ExpiresAt  time.Time  `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
}

func (c *ConfirmationCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

func (c *ConfirmationCode) IsConsumed() bool {
	return c.ConsumedAt != nil
}

func (c *ConfirmationCode) IsValid() bool {
	return !c.IsExpired() && !c.IsConsumed()
}
