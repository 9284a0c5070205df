package identity

import (
	"context"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockOrganizationRepository is a mock implementation of OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// passthroughTx runs the unit of work without a real transaction
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newAuthService() (*AuthService, *MockUserRepository, *MockOrganizationRepository) {
	users := new(MockUserRepository)
	organizations := new(MockOrganizationRepository)
	jwtService := auth.NewJWTService("test-secret", "gestor-test", time.Hour)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	service := NewAuthService(users, organizations, jwtService, hasher, passthroughTx{}, nil)
	return service, users, organizations
}

func TestAuthService_Register_Success(t *testing.T) {
	service, users, organizations := newAuthService()

	ctx := context.Background()
	input := RegisterInput{
		OrganizationName: "Aguas do Vale",
		Document:         "12.345.678/0001-90",
		Username:         "joao",
		Password:         "secret123",
		Name:             "João",
		Email:            "joao@example.com",
	}

	users.On("FindByUsername", ctx, "joao").Return(nil, shared.ErrNotFound)
	organizations.On("Save", ctx, mock.AnythingOfType("*identity.Organization")).Return(nil)
	users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := service.Register(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "joao", result.User.Username)
	assert.NotEqual(t, uuid.Nil, result.User.OrganizationID)
	users.AssertExpectations(t)
	organizations.AssertExpectations(t)

	// the stored password is a hash, never the plaintext
	savedUser := users.Calls[len(users.Calls)-1].Arguments.Get(1).(*identity.User)
	assert.NotEqual(t, "secret123", savedUser.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.PasswordHash), []byte("secret123")))
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	service, users, _ := newAuthService()

	result, err := service.Register(context.Background(), RegisterInput{
		OrganizationName: "Aguas do Vale",
		Username:         "joao",
		Password:         "123",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	existing, _ := identity.NewUser(uuid.New(), "joao", "hash", "João", "")

	users.On("FindByUsername", ctx, "joao").Return(existing, nil)

	result, err := service.Register(ctx, RegisterInput{
		OrganizationName: "Aguas do Vale",
		Username:         "joao",
		Password:         "secret123",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAuthService_Login_Success(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user, _ := identity.NewUser(uuid.New(), "joao", string(hash), "João", "")

	users.On("FindByUsername", ctx, "joao").Return(user, nil)

	result, err := service.Login(ctx, LoginInput{Username: "joao", Password: "secret123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user, _ := identity.NewUser(uuid.New(), "joao", string(hash), "João", "")

	users.On("FindByUsername", ctx, "joao").Return(user, nil)

	result, err := service.Login(ctx, LoginInput{Username: "joao", Password: "wrong"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	users.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, LoginInput{Username: "ghost", Password: "whatever"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	// unknown usernames and bad passwords are indistinguishable
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user, _ := identity.NewUser(uuid.New(), "joao", string(hash), "João", "")
	user.Deactivate()

	users.On("FindByUsername", ctx, "joao").Return(user, nil)

	result, err := service.Login(ctx, LoginInput{Username: "joao", Password: "secret123"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_LoginTokenRoundTrip(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user, _ := identity.NewUser(uuid.New(), "joao", string(hash), "João", "")

	users.On("FindByUsername", ctx, "joao").Return(user, nil)

	result, err := service.Login(ctx, LoginInput{Username: "joao", Password: "secret123"})
	assert.NoError(t, err)

	jwtService := auth.NewJWTService("test-secret", "gestor-test", time.Hour)
	claims, err := jwtService.ValidateToken(result.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.OrganizationID.String(), claims.TenantID)
	assert.Equal(t, "joao", claims.Username)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	user, _ := identity.NewUser(uuid.New(), "joao", "hash", "João", "joao@example.com")

	users.On("FindByID", ctx, user.ID).Return(user, nil)

	info, err := service.GetCurrentUser(ctx, user.ID)

	assert.NoError(t, err)
	assert.Equal(t, "joao", info.Username)
	assert.Equal(t, "joao@example.com", info.Email)
}
