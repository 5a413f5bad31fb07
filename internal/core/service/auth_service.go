package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// reservedUsername collides with the self-service /users/me/ route and is
// rejected case-insensitively at signup.
const reservedUsername = "me"

const (
	confirmationSubject = "Confirmation code"
	confirmationBody    = "Your confirmation code: %s"
)

// AuthService implements the signup → confirmation → token exchange flow.
type AuthService struct {
	users  ports.UserRepository
	mail   ports.Mailer
	signer ports.TokenSigner
	clock  ports.Clock
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, mail ports.Mailer, signer ports.TokenSigner, clock ports.Clock, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, mail: mail, signer: signer, clock: clock, logger: logger}
}

// ValidateUsername enforces the username pattern and the reserved name.
// Shared with the admin user surface.
func ValidateUsername(username string) error {
	if username == "" {
		return domain.NewValidationError("username", "is required")
	}
	if strings.EqualFold(username, reservedUsername) {
		return domain.NewValidationError("username", "this username is reserved")
	}
	if !usernamePattern.MatchString(username) {
		return domain.NewValidationError("username", "may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

// Signup registers an inactive user and mails a confirmation code.
// Re-signup with the exact (username, email) pair of an existing user is an
// idempotent success: no new row, no new code, no new mail.
func (s *AuthService) Signup(ctx context.Context, username, email string) (*domain.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}

	existing, err := s.users.FindByUsernameEmail(ctx, username, email)
	if err == nil {
		s.logger.Info().Str("username", username).Msg("signup replay for existing user")
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Error().Err(err).Str("username", username).Msg("signup lookup failed")
		return nil, domain.NewValidationError("", "signup failed")
	}

	code := generateConfirmationCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		Username:         username,
		Email:            email,
		Role:             domain.RoleUser,
		ConfirmationCode: string(hash),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		// Do not leak storage detail; the caller sees a generic client error.
		s.logger.Error().Err(err).Str("username", username).Msg("signup persist failed")
		return nil, domain.NewValidationError("", "signup failed")
	}

	// Fire-and-forget: a delivery failure must not roll back the signup.
	if err := s.mail.Send(ctx, email, confirmationSubject, fmt.Sprintf(confirmationBody, code)); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("confirmation mail dispatch failed")
	}

	s.logger.Info().Str("username", username).Msg("user signed up")
	return created, nil
}

// Token exchanges a confirmation code for a bearer token. The account is
// activated on first success; re-exchange with the same code succeeds again.
func (s *AuthService) Token(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(confirmationCode)) != nil {
		return "", domain.ErrInvalidConfirmationCode
	}

	if !user.Active {
		user.Active = true
		user.UpdatedAt = s.clock.Now().UTC()
		if err := s.users.Update(ctx, user); err != nil {
			return "", fmt.Errorf("activate user: %w", err)
		}
	}

	token, err := s.signer.Issue(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("token issued")
	return token, nil
}

// generateConfirmationCode returns an opaque 16-hex-digit code.
func generateConfirmationCode() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("%X", b)
}

// SystemClock implements ports.Clock on the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
