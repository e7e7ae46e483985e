// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/reviewboard/internal/config"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

var ErrInvalidCode = errors.New("invalid confirmation code")

type UserInfo struct {
	ID        string
	Username  string
	Email     string
	Role      string
	Superuser bool
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetOrCreatePending(
		ctx context.Context,
		username, email string,
	) (*UserInfo, error)
}

// CodeSender dispatches a confirmation code to the given address.
type CodeSender interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	userProvider UserProvider
	sender       CodeSender
	signupCfg    config.SignupConfig
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	sender CodeSender,
	signupCfg config.SignupConfig,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		userProvider: userProvider,
		sender:       sender,
		signupCfg:    signupCfg,
	}
}

// Signup creates or reuses the account and issues a fresh confirmation
// code. A send failure does not roll anything back; the caller gets a
// warning and can request a resend by signing up again.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*SignupResponse, error) {
	user, err := s.userProvider.GetOrCreatePending(
		ctx,
		req.Username,
		req.Email,
	)
	if err != nil {
		return nil, err
	}

	code, err := core.GenerateConfirmationCode(s.signupCfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	codeHash, err := core.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	// Re-registration invalidates any earlier code.
	if err := s.repo.DeleteForUser(ctx, user.ID); err != nil {
		return nil, err
	}

	confirmation := &ConfirmationCode{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CodeHash:  codeHash,
		ExpiresAt: time.Now().Add(s.signupCfg.CodeTTL),
	}

	if err := s.repo.Create(ctx, confirmation); err != nil {
		return nil, err
	}

	resp := &SignupResponse{
		Username: user.Username,
		Email:    user.Email,
	}

	if err := s.sender.SendConfirmationCode(ctx, user.Email, code); err != nil {
		slog.Warn("confirmation email dispatch failed",
			"username", user.Username,
			"error", err,
		)
		resp.Warning = "confirmation email could not be sent; " +
			"sign up again to request a new code"
	}

	return resp, nil
}

// IssueToken exchanges a confirmation code for a bearer token. Codes
// are single-use: the winning exchange consumes the code and any
// replay fails.
func (s *Service) IssueToken(
	ctx context.Context,
	req TokenRequest,
) (*TokenResponse, error) {
	user, err := s.userProvider.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	confirmation, err := s.repo.FindActiveByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention
			_, _ = core.VerifyCodeTimingSafe(req.ConfirmationCode, nil)
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	valid, err := core.VerifyCodeTimingSafe(
		req.ConfirmationCode,
		&confirmation.CodeHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify confirmation code: %w", err)
	}

	if !valid || confirmation.IsExpired() {
		return nil, ErrInvalidCode
	}

	if err := s.repo.Consume(ctx, confirmation.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	token, expiresAt, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.Superuser,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// PurgeExpiredCodes is a maintenance hook for operators; nothing in the
// request path depends on it.
func (s *Service) PurgeExpiredCodes(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
