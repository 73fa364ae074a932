package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bookshelf/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
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

// invoke runs the Identity middleware against a request whose context
// carries the given validated token, the way echo-jwt leaves it.
func invoke(t *testing.T, repo *MockUserRepository, store *MockTokenStore, token interface{}) (*model.User, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != nil {
		c.Set("user", token)
	}

	var resolved *model.User
	handler := Identity(repo, store)(func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "no user in context")
		}
		resolved = user
		return c.NoContent(http.StatusOK)
	})

	return resolved, handler(c)
}

func validatedToken(userID float64, jti string) *jwtv5.Token {
	return &jwtv5.Token{
		Valid:  true,
		Claims: jwtv5.MapClaims{"user_id": userID, "jti": jti},
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok, "expected *echo.HTTPError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestIdentity_ResolvesExistingUser(t *testing.T) {
	repo := new(MockUserRepository)
	store := new(MockTokenStore)

	stored := &model.User{ID: 7, Username: "reader"}
	store.On("IsAccessTokenBlacklisted", mock.Anything, "tok-1").Return(false, nil)
	repo.On("FindByID", mock.Anything, uint(7)).Return(stored, nil)

	resolved, err := invoke(t, repo, store, validatedToken(7, "tok-1"))
	assert.NoError(t, err)
	assert.Equal(t, stored, resolved)
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

// A logged-out token is blacklisted by jti; it must stop resolving even
// though its signature and expiry are still valid.
func TestIdentity_RejectsBlacklistedToken(t *testing.T) {
	repo := new(MockUserRepository)
	store := new(MockTokenStore)

	store.On("IsAccessTokenBlacklisted", mock.Anything, "ended").Return(true, nil)

	resolved, err := invoke(t, repo, store, validatedToken(7, "ended"))
	assertUnauthorized(t, err)
	assert.Nil(t, resolved)
	// An ended session must never reach the user lookup.
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// A claim whose user id no longer maps to a stored user must resolve to
// none, never to a dangling id.
func TestIdentity_RejectsDanglingUserID(t *testing.T) {
	repo := new(MockUserRepository)
	store := new(MockTokenStore)

	store.On("IsAccessTokenBlacklisted", mock.Anything, "tok-2").Return(false, nil)
	repo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

	resolved, err := invoke(t, repo, store, validatedToken(404, "tok-2"))
	assertUnauthorized(t, err)
	assert.Nil(t, resolved)
	repo.AssertExpectations(t)
}

func TestIdentity_RejectsMissingToken(t *testing.T) {
	resolved, err := invoke(t, new(MockUserRepository), new(MockTokenStore), nil)
	assertUnauthorized(t, err)
	assert.Nil(t, resolved)
}

func TestIdentity_RejectsMalformedClaims(t *testing.T) {
	repo := new(MockUserRepository)
	store := new(MockTokenStore)

	store.On("IsAccessTokenBlacklisted", mock.Anything, "tok-3").Return(false, nil)

	// user_id missing entirely
	resolved, err := invoke(t, repo, store, &jwtv5.Token{
		Valid:  true,
		Claims: jwtv5.MapClaims{"jti": "tok-3"},
	})
	assertUnauthorized(t, err)
	assert.Nil(t, resolved)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
