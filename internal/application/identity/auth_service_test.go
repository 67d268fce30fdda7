package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/identity"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/infrastructure/auth"
	"github.com/salespos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

const testPassword = "Str0ngPass"

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-with-32-chars!!",
		RefreshSecret:          "test-refresh-secret-with-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "salespos-test",
	})
}

func newTestAuthService(t *testing.T, repo *MockUserRepository) *AuthService {
	t.Helper()
	return NewAuthService(repo, newTestJWTService(t),
		auth.NewInMemoryTokenBlacklist(), DefaultAuthServiceConfig(), zap.NewNop())
}

func createActiveUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("operator1", testPassword, identity.RoleOperator)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	t.Run("successful login returns token pair", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)
		ctx := context.Background()

		user := createActiveUser(t)
		repo.On("FindByUsername", ctx, "operator1").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		result, err := service.Login(ctx, LoginInput{Username: "operator1", Password: testPassword})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "operator1", result.User.Username)
		assert.Equal(t, "OPERATOR", result.User.Role)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user yields invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)
		ctx := context.Background()

		repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := service.Login(ctx, LoginInput{Username: "ghost", Password: testPassword})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("wrong password increments failed attempts", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)
		ctx := context.Background()

		user := createActiveUser(t)
		repo.On("FindByUsername", ctx, "operator1").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		_, err := service.Login(ctx, LoginInput{Username: "operator1", Password: "WrongPass1"})

		require.Error(t, err)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("account locks after max failed attempts", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)
		ctx := context.Background()

		user := createActiveUser(t)
		repo.On("FindByUsername", ctx, "operator1").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		var lastErr error
		for i := 0; i < DefaultAuthServiceConfig().MaxLoginAttempts; i++ {
			_, lastErr = service.Login(ctx, LoginInput{Username: "operator1", Password: "WrongPass1"})
		}

		var domainErr *shared.DomainError
		require.ErrorAs(t, lastErr, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
		assert.True(t, user.IsLocked())

		// even the right password is rejected while locked
		_, err := service.Login(ctx, LoginInput{Username: "operator1", Password: testPassword})
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})

	t.Run("inactive account rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)
		ctx := context.Background()

		user := createActiveUser(t)
		require.NoError(t, user.Deactivate())
		repo.On("FindByUsername", ctx, "operator1").Return(user, nil)

		_, err := service.Login(ctx, LoginInput{Username: "operator1", Password: testPassword})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid refresh token yields a new pair and revokes the old one", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)
		ctx := context.Background()

		user := createActiveUser(t)
		repo.On("FindByUsername", ctx, "operator1").Return(user, nil)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		login, err := service.Login(ctx, LoginInput{Username: "operator1", Password: testPassword})
		require.NoError(t, err)

		refreshed, err := service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)

		// replaying the consumed refresh token must fail
		_, err = service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(t, repo)

		_, err := service.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "not-a-token"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("logout blacklists the access token", func(t *testing.T) {
		repo := new(MockUserRepository)
		jwtService := newTestJWTService(t)
		blacklist := auth.NewInMemoryTokenBlacklist()
		service := NewAuthService(repo, jwtService, blacklist,
			DefaultAuthServiceConfig(), zap.NewNop())
		ctx := context.Background()

		user := createActiveUser(t)
		repo.On("FindByUsername", ctx, "operator1").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		login, err := service.Login(ctx, LoginInput{Username: "operator1", Password: testPassword})
		require.NoError(t, err)

		require.NoError(t, service.Logout(ctx, login.AccessToken))

		claims, err := jwtService.ValidateAccessToken(login.AccessToken)
		require.NoError(t, err)
		blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})
}
