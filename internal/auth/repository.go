// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/reviewboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, code *ConfirmationCode) error
	FindActiveByUserID(
		ctx context.Context,
		userID string,
	) (*ConfirmationCode, error)
	Consume(ctx context.Context, id string) error
	DeleteForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	code *ConfirmationCode,
) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &code.CreatedAt, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create confirmation code: %w", err)
	}

	return nil
}

func (r *repository) FindActiveByUserID(
	ctx context.Context,
	userID string,
) (*ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, created_at, consumed_at
		FROM confirmation_codes
		WHERE user_id = $1 AND consumed_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`

	var code ConfirmationCode
	err := r.db.GetContext(ctx, &code, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find confirmation code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find confirmation code: %w", err)
	}

	return &code, nil
}

// Consume marks the code used. The consumed_at guard makes this a
// compare-and-set, so concurrent token requests cannot both win.
func (r *repository) Consume(ctx context.Context, id string) error {
	query := `
		UPDATE confirmation_codes
		SET consumed_at = NOW()
		WHERE id = $1 AND consumed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("consume confirmation code: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteForUser(
	ctx context.Context,
	userID string,
) error {
	query := `DELETE FROM confirmation_codes WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete confirmation codes: %w", err)
	}

	return nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM confirmation_codes WHERE expires_at < NOW()`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}

	return rows, nil
}
