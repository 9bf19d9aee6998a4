// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
	"github.com/AnanyaNagabhushan/taskflow/internal/repository"
	"github.com/AnanyaNagabhushan/taskflow/pkg/auth"
)

type AuthService struct {
	users           *repository.UserRepository
	tokens          *repository.TokenRepository
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
}

func NewAuthService(
	users *repository.UserRepository,
	tokens *repository.TokenRepository,
	tokenManager *auth.TokenManager,
) *AuthService {
	return &AuthService{
		users:           users,
		tokens:          tokens,
		tokenManager:    tokenManager,
		passwordManager: auth.NewPasswordManager(),
	}
}

// TokenPair is the credential set returned by Register, Login and Refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if err := auth.ValidateUsername(username); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err := auth.ValidateEmail(email); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err := s.passwordManager.ValidatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	exists, err := s.users.Exists(ctx, username, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("%w: user with this username or email already exists", ErrConflict)
	}

	hash, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence check; the
		// unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, fmt.Errorf("%w: user with this username or email already exists", ErrConflict)
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and issues a token pair. The identifier may be
// a username or an email address.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, identifier)
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid username or password", ErrInvalidCredentials)
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	if s.passwordManager.ComparePassword(user.PasswordHash, password) != nil {
		return nil, nil, fmt.Errorf("%w: invalid username or password", ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
	}

	access, expiresIn, err := s.tokenManager.GenerateAccessToken(claims.UserID, claims.Username, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &TokenPair{AccessToken: access, ExpiresIn: expiresIn}, nil
}

// Logout revokes the presented token by jti.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked is used by the auth middleware on every protected request.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tokens.IsRevoked(ctx, jti)
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ForgotPassword confirms an account exists for the email. No reset email
// is sent; the caller follows up with ResetPassword.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return fmt.Errorf("load user: %w", err)
	}
	return nil
}

// ResetPassword replaces the stored hash for the account.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := s.passwordManager.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	hash, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	access, refresh, expiresIn, err := s.tokenManager.GenerateTokenPair(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}
