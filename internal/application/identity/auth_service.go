package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles registration and authentication
type AuthService struct {
	users         identity.UserRepository
	organizations identity.OrganizationRepository
	jwtService    *auth.JWTService
	hasher        auth.PasswordHasher
	tx            shared.TransactionManager
	logger        *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	organizations identity.OrganizationRepository,
	jwtService *auth.JWTService,
	hasher auth.PasswordHasher,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:         users,
		organizations: organizations,
		jwtService:    jwtService,
		hasher:        hasher,
		tx:            tx,
		logger:        logger,
	}
}

// RegisterInput carries the data to bootstrap an organization with its
// first user
type RegisterInput struct {
	OrganizationName string
	Document         string
	Username         string
	Password         string
	Name             string
	Email            string
}

// UserInfo is the authenticated user's public identity
type UserInfo struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
}

// LoginResult carries an issued token and the user it belongs to
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
	User        UserInfo  `json:"user"`
}

// Register creates an organization and its first user, then logs them in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	if len(input.Password) < 6 {
		return nil, shared.NewValidationError("password must have at least 6 characters")
	}

	_, err := s.users.FindByUsername(ctx, input.Username)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "username is already taken")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	organization, err := identity.NewOrganization(input.OrganizationName, input.Document)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(organization.ID, input.Username, passwordHash, input.Name, input.Email)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.organizations.Save(ctx, organization); err != nil {
			return fmt.Errorf("failed to save organization: %w", err)
		}
		if err := s.users.Save(ctx, user); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("organization registered",
		zap.String("organization_id", organization.ID.String()),
		zap.String("username", user.Username))
	return s.issueToken(user)
}

// LoginInput carries login credentials
type LoginInput struct {
	Username string
	Password string
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login attempt for unknown username", zap.String("username", input.Username))
			return nil, shared.NewDomainError("UNAUTHORIZED", "invalid username or password")
		}
		return nil, err
	}

	if !user.Active {
		s.logger.Warn("login attempt for deactivated account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("UNAUTHORIZED", "account has been deactivated")
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		s.logger.Warn("invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("UNAUTHORIZED", "invalid username or password")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	return s.issueToken(user)
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := userInfo(user)
	return &info, nil
}

func (s *AuthService) issueToken(user *identity.User) (*LoginResult, error) {
	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: user.OrganizationID,
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        userInfo(user),
	}, nil
}

func userInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Username:       user.Username,
		Name:           user.Name,
		Email:          user.Email,
	}
}
