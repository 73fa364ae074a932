package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookshelf/internal/auth"
	apperrors "bookshelf/internal/errors"
	"bookshelf/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "reader",
			email:    "reader@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "reader").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "reader@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "username already taken",
			username: "taken",
			email:    "fresh@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "taken").Return(&model.User{Username: "taken"}, nil)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:     "email already registered",
			username: "fresh",
			email:    "taken@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "fresh").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tokenStore := new(MockTokenStore)
			tt.setupMock(userRepo)

			svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), tokenStore)
			user, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &model.User{ID: 7, Username: "reader", Email: "reader@example.com", PasswordHash: string(hash)}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "reader",
			password: "password123",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
				store.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(7), "reader", auth.RefreshTokenExpiry).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "password123",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "reader",
			password: "not-the-password",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tokenStore := new(MockTokenStore)
			tt.setupMock(userRepo, tokenStore)

			svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), tokenStore)
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, stored.ID, user.ID)
			}
			userRepo.AssertExpectations(t)
			tokenStore.AssertExpectations(t)
		})
	}
}

// Registering and then logging in with the same credentials must resolve to
// the same user identity.
func TestAuthService_RegisterThenLogin(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)

	var created *model.User
	userRepo.On("FindByUsername", mock.Anything, "roundtrip").Return(nil, gorm.ErrRecordNotFound).Once()
	userRepo.On("FindByEmail", mock.Anything, "roundtrip@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.User)
		created.ID = 42
	}).Return(nil)

	svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), tokenStore)

	registered, err := svc.Register(context.Background(), "roundtrip", "roundtrip@example.com", "password123")
	assert.NoError(t, err)

	userRepo.On("FindByUsername", mock.Anything, "roundtrip").Return(created, nil)
	tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(42), "roundtrip", auth.RefreshTokenExpiry).Return(nil)

	_, _, loggedIn, err := svc.Login(context.Background(), "roundtrip", "password123")
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.Equal(t, registered.Username, loggedIn.Username)
}

func TestAuthService_Logout(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	jwtService := auth.NewJWTService("test-secret")

	accessToken, err := jwtService.GenerateAccessToken(7, "reader")
	assert.NoError(t, err)
	refreshID, refreshToken, err := jwtService.GenerateRefreshToken(7, "reader")
	assert.NoError(t, err)

	tokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
	tokenStore.On("BlacklistAccessToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)

	svc := NewAuthService(userRepo, jwtService, tokenStore)
	assert.NoError(t, svc.Logout(context.Background(), accessToken, refreshToken))
	tokenStore.AssertExpectations(t)
}

func TestAuthService_RefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	jwtService := auth.NewJWTService("test-secret")

	refreshID, refreshToken, err := jwtService.GenerateRefreshToken(7, "reader")
	assert.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		tokenStore.On("GetRefreshToken", mock.Anything, refreshID).Return(uint(7), "reader", nil).Once()

		svc := NewAuthService(userRepo, jwtService, tokenStore)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("refresh token deleted by logout", func(t *testing.T) {
		tokenStore.On("GetRefreshToken", mock.Anything, refreshID).Return(uint(0), "", assert.AnError).Once()

		svc := NewAuthService(userRepo, jwtService, tokenStore)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(userRepo, jwtService, tokenStore)
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}
