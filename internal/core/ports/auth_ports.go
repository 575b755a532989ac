package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvalle/auth-api/internal/core/domain"
)

type BlacklistRepository interface {
	Add(ctx context.Context, token *domain.BlacklistedToken) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenIssuer mints and verifies self-contained bearer tokens. Decode fails
// on a bad signature, a malformed token or a passed expiry.
type TokenIssuer interface {
	Issue(subject uuid.UUID, ttl time.Duration) (string, error)
	Decode(token string) (uuid.UUID, error)
}

// ResetMailer delivers password recovery tokens out of band.
type ResetMailer interface {
	SendPasswordReset(to, fullName, token string) error
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	// Login returns a signed access token for valid, active credentials.
	Login(ctx context.Context, email, password string) (string, error)
	// Authorize resolves a bearer token to its user, vetoed by the blacklist.
	Authorize(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
