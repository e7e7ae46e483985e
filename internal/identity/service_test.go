// AngelaMos | 2026
// service_test.go

package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/core"
)

type fakeRepo struct {
	byUsername map[string]*User
	createErr  error
	created    []*User
	updated    []*User
	deleted    []string
}

func newFakeRepo(users ...*User) *fakeRepo {
	r := &fakeRepo{byUsername: map[string]*User{}}
	for _, u := range users {
		r.byUsername[u.Username] = u
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, user *User) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *user
	r.byUsername[user.Username] = &copied
	r.created = append(r.created, &copied)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range r.byUsername {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (r *fakeRepo) GetByUsername(
	_ context.Context,
	username string,
) (*User, error) {
	if u, ok := r.byUsername[username]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (r *fakeRepo) GetByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	for _, u := range r.byUsername {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (r *fakeRepo) Update(_ context.Context, user *User) error {
	copied := *user
	r.byUsername[user.Username] = &copied
	r.updated = append(r.updated, &copied)
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, username string) error {
	delete(r.byUsername, username)
	r.deleted = append(r.deleted, username)
	return nil
}

func (r *fakeRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	var out []User
	for _, u := range r.byUsername {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func newTestService(t *testing.T, users ...*User) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo(users...)
	return NewService(repo, testPolicy(t)), repo
}

func TestGetOrCreatePending_CreatesNewUser(t *testing.T) {
	svc, repo := newTestService(t)

	info, err := svc.GetOrCreatePending(
		context.Background(), "alice", "Alice@Example.com")
	require.NoError(t, err)

	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "alice@example.com", info.Email, "email is lowercased")
	assert.Equal(t, RoleUser, info.Role)
	require.Len(t, repo.created, 1)
}

func TestGetOrCreatePending_IdempotentExactPair(t *testing.T) {
	svc, repo := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	})

	info, err := svc.GetOrCreatePending(
		context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "u1", info.ID)
	assert.Empty(t, repo.created, "no new row for exact pair")
}

func TestGetOrCreatePending_UsernameBoundElsewhere(t *testing.T) {
	svc, _ := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
	})

	_, err := svc.GetOrCreatePending(
		context.Background(), "alice", "other@example.com")
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "conflict", appErr.Code)
}

func TestGetOrCreatePending_EmailBoundElsewhere(t *testing.T) {
	svc, _ := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
	})

	_, err := svc.GetOrCreatePending(
		context.Background(), "bob", "alice@example.com")
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "conflict", appErr.Code)
}

func TestGetOrCreatePending_InsertRaceMapsToConflict(t *testing.T) {
	svc, repo := newTestService(t)
	repo.createErr = fmt.Errorf("create user: %w", core.ErrDuplicateKey)

	_, err := svc.GetOrCreatePending(
		context.Background(), "alice", "alice@example.com")
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "conflict", appErr.Code)
}

func TestGetOrCreatePending_RejectsReservedUsername(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetOrCreatePending(
		context.Background(), "me", "me@example.com")
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "username")
}

func TestUpdateMe_CannotTouchRole(t *testing.T) {
	svc, _ := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	})

	first := "Alice"
	bio := "reads a lot"
	user, err := svc.UpdateMe(context.Background(), "alice",
		SelfProfileUpdate{FirstName: &first, Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "reads a lot", user.Bio)
	assert.Equal(t, RoleUser, user.Role)
}

func TestUpdateUser_AdminChangesRole(t *testing.T) {
	svc, _ := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	})

	role := RoleModerator
	user, err := svc.UpdateUser(context.Background(), "alice",
		AdminProfileUpdate{Role: &role})
	require.NoError(t, err)

	assert.Equal(t, RoleModerator, user.Role)
}

func TestUpdateUser_RejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	})

	role := "supreme_leader"
	_, err := svc.UpdateUser(context.Background(), "alice",
		AdminProfileUpdate{Role: &role})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDeleteUser_RefusesSuperuser(t *testing.T) {
	svc, repo := newTestService(t, &User{
		ID:          "u1",
		Username:    "root",
		Email:       "root@example.com",
		Role:        RoleAdmin,
		IsSuperuser: true,
	})

	err := svc.DeleteUser(context.Background(), "root")
	require.Error(t, err)
	assert.True(t, core.IsAppError(err))
	assert.Empty(t, repo.deleted)
}

func TestDeleteUser(t *testing.T) {
	svc, repo := newTestService(t, &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	})

	require.NoError(t, svc.DeleteUser(context.Background(), "alice"))
	assert.Equal(t, []string{"alice"}, repo.deleted)
}

func TestCreateUser_DefaultsRole(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "bob",
		Email:    "Bob@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "bob@example.com", user.Email)
}
