package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvalle/auth-api/internal/core/domain"
)

// UpdateUserInput carries optional profile fields; nil means "leave as is".
type UpdateUserInput struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

type UserService interface {
	// GetByID enforces the self-or-superuser read policy.
	GetByID(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.User, error)
	UpdateMe(ctx context.Context, user *domain.User, input UpdateUserInput) (*domain.User, error)
	// UpdateByID enforces self-or-superuser and never touches the password,
	// even when the input carries one.
	UpdateByID(ctx context.Context, requester *domain.User, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	// Delete is superuser only; self-delete is always rejected.
	Delete(ctx context.Context, requester *domain.User, id uuid.UUID) error
	List(ctx context.Context, requester *domain.User, skip, limit int) ([]domain.User, error)
}
