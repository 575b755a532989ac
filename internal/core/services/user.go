package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 100

type UserService struct {
	repo   ports.UserRepository
	hasher *PasswordHasher
	log    *logrus.Logger
}

func NewUserService(repo ports.UserRepository, hasher *PasswordHasher, log *logrus.Logger) ports.UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
}

func (s *UserService) GetByID(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if user.ID != requester.ID && !requester.IsSuperuser {
		return nil, domain.ErrNotEnoughPrivileges
	}

	return user, nil
}

// UpdateMe updates the requester's own profile. A password in the input is
// the one path where a profile update replaces the hash.
func (s *UserService) UpdateMe(ctx context.Context, user *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		hashed, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateByID updates another user's details. The password field is dropped
// here on purpose: admin-initiated detail updates never touch credentials.
func (s *UserService) UpdateByID(ctx context.Context, requester *domain.User, id uuid.UUID, input ports.UpdateUserInput) (*domain.User, error) {
	if id != requester.ID && !requester.IsSuperuser {
		return nil, domain.ErrNotEnoughPrivileges
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User %s updated by %s", user.ID, requester.ID)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, requester *domain.User, id uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if !requester.IsSuperuser {
		return domain.ErrNotEnoughPrivileges
	}
	if id == requester.ID {
		return domain.ErrSelfDelete
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: failed to delete user: %v", domain.ErrInternal, err)
	}

	s.log.Infof("User %s deleted by %s", id, requester.ID)
	return nil
}

func (s *UserService) List(ctx context.Context, requester *domain.User, skip, limit int) ([]domain.User, error) {
	if !requester.IsSuperuser {
		return nil, domain.ErrNotEnoughPrivileges
	}

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	users, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
