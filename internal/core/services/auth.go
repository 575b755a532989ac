package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users     ports.UserRepository
	blacklist ports.BlacklistRepository
	tokens    ports.TokenIssuer
	hasher    *PasswordHasher
	mailer    ports.ResetMailer
	tokenTTL  time.Duration
	resetTTL  time.Duration
	log       *logrus.Logger
}

func NewAuthService(
	users ports.UserRepository,
	blacklist ports.BlacklistRepository,
	tokens ports.TokenIssuer,
	hasher *PasswordHasher,
	mailer ports.ResetMailer,
	tokenTTL, resetTTL time.Duration,
	log *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		hasher:    hasher,
		mailer:    mailer,
		tokenTTL:  tokenTTL,
		resetTTL:  resetTTL,
		log:       log,
	}
}

// Signup creates a regular active user. Email uniqueness is enforced by the
// database constraint, so a racing duplicate still surfaces as ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          input.Email,
		HashedPassword: hashed,
		FullName:       input.FullName,
		IsActive:       true,
		IsSuperuser:    false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Authenticate returns the user matching email and password, or nil. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", domain.ErrInactiveUser
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return token, nil
}

// Authorize resolves a bearer token to its user. Blacklisted, invalid and
// orphaned tokens all collapse into ErrUnauthenticated.
func (s *AuthService) Authorize(ctx context.Context, token string) (*domain.User, error) {
	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	subject, err := s.tokens.Decode(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	return user, nil
}

// Logout blacklists the presented token until its own expiry would have
// passed. Revoking the same token twice is harmless: the check is
// existence-based, duplicate rows change nothing.
func (s *AuthService) Logout(ctx context.Context, token string, userID uuid.UUID) error {
	if strings.Count(token, ".") != 2 {
		return nil
	}

	entry := &domain.BlacklistedToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.blacklist.Add(ctx, entry); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.log.Infof("User logged out: %s", userID)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if !s.hasher.Verify(currentPassword, user.HashedPassword) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed

	return s.users.Update(ctx, user)
}

// RecoverPassword stores a fresh single-use reset token on the user and
// mails it out.
func (s *AuthService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expires := time.Now().Add(s.resetTTL)
	user.ResetToken = &token
	user.ResetTokenExpires = &expires

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.FullName, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.log.Infof("Password reset token issued for %s", user.Email)
	return nil
}

// VerifyResetToken returns the user owning a non-expired reset token.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.ResetTokenExpires == nil || user.ResetTokenExpires.Before(time.Now()) {
		return nil, domain.ErrInvalidResetToken
	}
	return user, nil
}

// ResetPassword replaces the password and clears the token, making it
// single-use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.HashedPassword = hashed
	user.ResetToken = nil
	user.ResetTokenExpires = nil

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.log.Infof("Password reset completed for %s", user.Email)
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, 48)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
