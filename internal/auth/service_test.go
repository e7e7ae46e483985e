// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/config"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

type fakeCodeRepo struct {
	codes map[string]*ConfirmationCode
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: map[string]*ConfirmationCode{}}
}

func (r *fakeCodeRepo) Create(
	_ context.Context,
	code *ConfirmationCode,
) error {
	code.CreatedAt = time.Now()
	copied := *code
	r.codes[code.ID] = &copied
	return nil
}

func (r *fakeCodeRepo) FindActiveByUserID(
	_ context.Context,
	userID string,
) (*ConfirmationCode, error) {
	var latest *ConfirmationCode
	for _, c := range r.codes {
		if c.UserID != userID || c.ConsumedAt != nil {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("find confirmation code: %w", core.ErrNotFound)
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeCodeRepo) Consume(_ context.Context, id string) error {
	code, ok := r.codes[id]
	if !ok || code.ConsumedAt != nil {
		return fmt.Errorf("consume confirmation code: %w", core.ErrNotFound)
	}
	now := time.Now()
	code.ConsumedAt = &now
	return nil
}

func (r *fakeCodeRepo) DeleteForUser(_ context.Context, userID string) error {
	for id, c := range r.codes {
		if c.UserID == userID {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *fakeCodeRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, c := range r.codes {
		if c.IsExpired() {
			delete(r.codes, id)
			n++
		}
	}
	return n, nil
}

type fakeUserProvider struct {
	users map[string]*UserInfo
}

func (p *fakeUserProvider) GetByUsername(
	_ context.Context,
	username string,
) (*UserInfo, error) {
	if u, ok := p.users[username]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (p *fakeUserProvider) GetOrCreatePending(
	_ context.Context,
	username, email string,
) (*UserInfo, error) {
	if u, ok := p.users[username]; ok {
		if u.Email != email {
			return nil, core.ConflictError("username or email already in use")
		}
		return u, nil
	}
	u := &UserInfo{
		ID:       "generated-" + username,
		Username: username,
		Email:    email,
		Role:     "user",
	}
	p.users[username] = u
	return u, nil
}

type fakeSender struct {
	sent    []string
	lastTo  string
	failure error
}

func (s *fakeSender) SendConfirmationCode(
	_ context.Context,
	email, code string,
) error {
	if s.failure != nil {
		return s.failure
	}
	s.sent = append(s.sent, code)
	s.lastTo = email
	return nil
}

func newTestAuthService(
	t *testing.T,
) (*Service, *fakeCodeRepo, *fakeUserProvider, *fakeSender) {
	t.Helper()

	repo := newFakeCodeRepo()
	provider := &fakeUserProvider{users: map[string]*UserInfo{}}
	sender := &fakeSender{}
	jwt := newTestJWTManager(t, time.Hour)

	svc := NewService(repo, jwt, provider, sender, config.SignupConfig{
		CodeLength: 6,
		CodeTTL:    time.Hour,
	})
	return svc, repo, provider, sender
}

func TestSignup_SendsCode(t *testing.T) {
	svc, repo, _, sender := newTestAuthService(t)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Empty(t, resp.Warning)
	require.Len(t, sender.sent, 1)
	assert.Len(t, sender.sent[0], 6)
	assert.Equal(t, "alice@example.com", sender.lastTo)
	assert.Len(t, repo.codes, 1)
}

func TestSignup_ReplacesEarlierCode(t *testing.T) {
	svc, repo, _, sender := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{
		Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupRequest{
		Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Len(t, repo.codes, 1, "re-signup invalidates the old code")
	require.Len(t, sender.sent, 2)

	// The first code is gone; only the latest exchanges for a token.
	_, err = svc.IssueToken(ctx, TokenRequest{
		Username:         "alice",
		ConfirmationCode: sender.sent[0],
	})
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.IssueToken(ctx, TokenRequest{
		Username:         "alice",
		ConfirmationCode: sender.sent[1],
	})
	assert.NoError(t, err)
}

func TestSignup_SendFailureWarnsWithoutRollback(t *testing.T) {
	svc, repo, _, sender := newTestAuthService(t)
	sender.failure = errors.New("smtp down")

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Warning)
	assert.Len(t, repo.codes, 1, "code stays issued despite send failure")
}

func TestSignup_ConflictPropagates(t *testing.T) {
	svc, _, provider, _ := newTestAuthService(t)
	provider.users["alice"] = &UserInfo{
		ID: "u1", Username: "alice", Email: "alice@example.com"}

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
	})
	require.Error(t, err)
	assert.True(t, core.IsAppError(err))
}

func TestIssueToken_Success(t *testing.T) {
	svc, _, _, sender := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{
		Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	resp, err := svc.IssueToken(ctx, TokenRequest{
		Username:         "alice",
		ConfirmationCode: sender.sent[0],
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Positive(t, resp.ExpiresIn)

	claims, err := svc.jwt.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestIssueToken_CodeIsSingleUse(t *testing.T) {
	svc, _, _, sender := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{
		Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	code := sender.sent[0]

	_, err = svc.IssueToken(ctx, TokenRequest{
		Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)

	_, err = svc.IssueToken(ctx, TokenRequest{
		Username: "alice", ConfirmationCode: code})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueToken_WrongCode(t *testing.T) {
	svc, _, _, sender := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{
		Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	wrong := "000000"
	if sender.sent[0] == wrong {
		wrong = "111111"
	}

	_, err = svc.IssueToken(ctx, TokenRequest{
		Username: "alice", ConfirmationCode: wrong})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueToken_ExpiredCode(t *testing.T) {
	svc, repo, _, sender := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{
		Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	for _, c := range repo.codes {
		c.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = svc.IssueToken(ctx, TokenRequest{
		Username: "alice", ConfirmationCode: sender.sent[0]})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueToken_UnknownUser(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.IssueToken(context.Background(), TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "123456",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestIssueToken_NoActiveCode(t *testing.T) {
	svc, _, provider, _ := newTestAuthService(t)
	provider.users["alice"] = &UserInfo{
		ID: "u1", Username: "alice", Email: "alice@example.com", Role: "user"}

	_, err := svc.IssueToken(context.Background(), TokenRequest{
		Username:         "alice",
		ConfirmationCode: "123456",
	})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestPurgeExpiredCodes(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)
	ctx := context.Background()

	repo.codes["c1"] = &ConfirmationCode{
		ID: "c1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Hour)}
	repo.codes["c2"] = &ConfirmationCode{
		ID: "c2", UserID: "u2", ExpiresAt: time.Now().Add(time.Hour)}

	purged, err := svc.PurgeExpiredCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Len(t, repo.codes, 1)
}
