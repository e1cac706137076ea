package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/identity"
	"github.com/innkeep/innkeep/internal/notification"
)

const (
	// GenericResetMessage is returned by ForgotPassword whether or not the
	// email exists, so responses cannot be used to enumerate accounts.
	GenericResetMessage = "If the email exists, a reset link has been sent"

	// ResetConfirmation acknowledges a completed password reset.
	ResetConfirmation = "Password has been reset"

	// LogoutConfirmation acknowledges a logout. Tokens remain valid until
	// natural expiry; there is no server-side session to tear down.
	LogoutConfirmation = "Logged out"

	minPasswordLength = 8
)

// ErrPasswordTooShort rejects passwords below the minimum length.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)

// Service orchestrates registration, login, token validation and refresh,
// and the password-reset flow. Tokens are the session; no per-login state
// is kept outside the consumed-token registry.
type Service struct {
	cfg      config.Config
	store    identity.Repository
	hasher   *PasswordHasher
	signer   *TokenSigner
	registry TokenRegistry
	mailer   notification.Mailer
	logger   *slog.Logger
}

// NewService wires the service from its collaborators. All configuration is
// explicit; nothing reads ambient global state.
func NewService(cfg config.Config, store identity.Repository, hasher *PasswordHasher, signer *TokenSigner, registry TokenRegistry, mailer notification.Mailer, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, store: store, hasher: hasher, signer: signer, registry: registry, mailer: mailer, logger: logger}
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Phone    string
}

// Session bundles the public user view with an issued token pair.
type Session struct {
	User         identity.User `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
}

// Register creates a new identity and returns a session for it. Duplicate
// emails fail with identity.ErrDuplicateEmail; the store's unique constraint
// makes the check effectively atomic under concurrent registrations.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if len(in.Password) < minPasswordLength {
		return Session{}, ErrPasswordTooShort
	}
	role, err := identity.ParseRole(in.Role)
	if err != nil {
		return Session{}, err
	}

	email := identity.NormalizeEmail(in.Email)
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return Session{}, identity.ErrDuplicateEmail
	} else if !errors.Is(err, identity.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	user, err := s.store.Create(ctx, identity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", string(user.Role))
	return s.issueSession(user)
}

// Login verifies credentials and returns a fresh session. Unknown email and
// wrong password produce the same error, and the unknown-email branch burns
// an equivalent bcrypt comparison so latency does not reveal which occurred.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}
	return s.issueSession(user)
}

// ValidateToken verifies an access token and resolves its subject. A token
// whose subject no longer exists fails as ErrInvalidToken.
func (s *Service) ValidateToken(ctx context.Context, token string) (identity.User, error) {
	claims, err := s.signer.Verify(token, PurposeAccess)
	if err != nil {
		return identity.User{}, ErrInvalidToken
	}
	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.User{}, ErrInvalidToken
		}
		return identity.User{}, fmt.Errorf("lookup subject: %w", err)
	}
	user.PasswordHash = nil
	return user, nil
}

// Refresh rotates a refresh token: the presented token's jti is consumed and
// a new access/refresh pair is issued. Replaying a rotated-out refresh token
// fails as ErrInvalidToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.signer.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, fmt.Errorf("lookup subject: %w", err)
	}

	ok, err := s.registry.Consume(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		return Session{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidToken
	}
	return s.issueSession(user)
}

// ForgotPassword issues a short-lived password-reset token and hands it to
// the mailer. The response is identical whether or not the email exists; the
// unknown-email branch still signs (and discards) a token so both branches
// do comparable work.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			_, _, _ = s.signer.Issue(identity.User{ID: uuid.NewString()}, PurposeReset, s.cfg.ResetTokenTTL)
			return GenericResetMessage, nil
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}

	token, _, err := s.signer.Issue(user, PurposeReset, s.cfg.ResetTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}
	mail := notification.Email{
		To:      user.Email,
		Subject: "Reset your password",
		Body:    "Use this token to reset your password: " + token,
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		// Delivery failures must not change the response shape.
		s.logger.Error("send reset email", "user_id", user.ID, "error", err)
	}
	return GenericResetMessage, nil
}

// ResetPassword consumes a single-use reset token and stores a new password
// hash. A token already consumed, expired, or issued for another purpose
// fails as ErrInvalidToken.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	claims, err := s.signer.Verify(resetToken, PurposeReset)
	if err != nil {
		return "", ErrInvalidToken
	}
	if len(newPassword) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("lookup subject: %w", err)
	}

	ok, err := s.registry.Consume(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return "", ErrInvalidToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	s.logger.Info("password reset", "user_id", user.ID)
	return ResetConfirmation, nil
}

// Logout is a stateless acknowledgment. Outstanding tokens stay valid until
// their natural expiry.
func (s *Service) Logout(_ context.Context, userID string) string {
	s.logger.Info("user logged out", "user_id", userID)
	return LogoutConfirmation
}

func (s *Service) issueSession(user identity.User) (Session, error) {
	// The session view never carries the stored hash.
	user.PasswordHash = nil
	access, accessClaims, err := s.signer.Issue(user, PurposeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, _, err := s.signer.Issue(user, PurposeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(accessClaims.ExpiresAt.Time).Seconds()),
	}, nil
}
