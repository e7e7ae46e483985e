// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/reviewboard/internal/auth"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

type Service struct {
	repo   Repository
	policy *UsernamePolicy
}

func NewService(repo Repository, policy *UsernamePolicy) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
	}
}

// GetOrCreatePending resolves a signup request to a user record. An
// exact (username, email) match is an idempotent re-registration; a
// partial match means one of the two is already bound elsewhere.
func (s *Service) GetOrCreatePending(
	ctx context.Context,
	username, email string,
) (*auth.UserInfo, error) {
	if err := s.policy.Validate(username); err != nil {
		return nil, err
	}

	email = strings.ToLower(email)

	byUsername, err := s.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if byUsername != nil {
		if byUsername.Email == email {
			return toUserInfo(byUsername), nil
		}
		return nil, core.ConflictError("username or email already in use")
	}

	byEmail, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if byEmail != nil {
		return nil, core.ConflictError("username or email already in use")
	}

	user := &User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Role:     RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Concurrent signup with the same username or email loses the
		// insert race to the unique constraints.
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError("username or email already in use")
		}
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetMe(
	ctx context.Context,
	username string,
) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByUsername(ctx, username)
}

// UpdateMe applies a SelfProfileUpdate. Role is untouchable here by
// construction; the DTO has no role field.
func (s *Service) UpdateMe(
	ctx context.Context,
	username string,
	req SelfProfileUpdate,
) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	if err := s.policy.Validate(req.Username); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) GetUser(
	ctx context.Context,
	username string,
) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// UpdateUser applies an AdminProfileUpdate, the only update variant
// that may change role.
func (s *Service) UpdateUser(
	ctx context.Context,
	username string,
	req AdminProfileUpdate,
) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		if !ValidRole(*req.Role) {
			return nil, fmt.Errorf(
				"update user: invalid role %q: %w",
				*req.Role,
				core.ErrInvalidInput,
			)
		}
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.IsSuperuser {
		return core.ForbiddenError("superuser accounts cannot be deleted")
	}

	return s.repo.Delete(ctx, username)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Superuser: u.IsSuperuser,
	}
}

var _ auth.UserProvider = (*Service)(nil)
