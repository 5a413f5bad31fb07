package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/permission"
	"github.com/criticdb/review-api/internal/core/ports"
)

// UserService covers the admin-facing user surface and the self-service
// profile endpoint.
type UserService struct {
	users  ports.UserRepository
	clock  ports.Clock
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, clock ports.Clock, logger zerolog.Logger) *UserService {
	return &UserService{users: users, clock: clock, logger: logger}
}

func (s *UserService) List(ctx context.Context, actor domain.Actor, filter ports.UserFilter) ([]*domain.User, int64, error) {
	if !permission.Users(actor, permission.ActionList) {
		return nil, 0, domain.ErrForbidden
	}
	return s.users.List(ctx, filter)
}

func (s *UserService) Create(ctx context.Context, actor domain.Actor, input ports.CreateUserInput) (*domain.User, error) {
	if !permission.Users(actor, permission.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if err := ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if input.Email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user created by admin")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, username string) (*domain.User, error) {
	if !permission.Users(actor, permission.ActionRetrieve) {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByUsername(ctx, username)
}

// Update applies a partial update through the admin surface, where role IS
// mutable.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, username string, patch ports.UserPatch) (*domain.User, error) {
	if !permission.Users(actor, permission.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.applyPatch(ctx, user, patch, true); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, username string) error {
	if !permission.Users(actor, permission.ActionDelete) {
		return domain.ErrForbidden
	}
	return s.users.Delete(ctx, username)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if !actor.Authenticated {
		return nil, domain.ErrInvalidToken
	}
	return s.users.FindByUsername(ctx, actor.Username)
}

// UpdateMe applies a partial self-update. A role carried in the patch is
// silently dropped: never applied, never an error. This keeps the
// self-service endpoint free of privilege escalation.
func (s *UserService) UpdateMe(ctx context.Context, actor domain.Actor, patch ports.UserPatch) (*domain.User, error) {
	if !actor.Authenticated {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.users.FindByUsername(ctx, actor.Username)
	if err != nil {
		return nil, err
	}
	if err := s.applyPatch(ctx, user, patch, false); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) applyPatch(ctx context.Context, user *domain.User, patch ports.UserPatch, allowRole bool) error {
	if patch.Email != nil {
		if *patch.Email == "" {
			return domain.NewValidationError("email", "is required")
		}
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil && allowRole {
		if !patch.Role.Valid() {
			return domain.NewValidationError("role", "unknown role")
		}
		user.Role = *patch.Role
	}
	user.UpdatedAt = s.clock.Now().UTC()
	return s.users.Update(ctx, user)
}
