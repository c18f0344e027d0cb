package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos/internal/config"
	"pos/internal/domain/model"
	"pos/internal/middleware"
	"pos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func mustMakeJWT(t *testing.T, secret string, sub string, role string, tv int) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":           sub,
		"role":          role,
		"token_version": tv,
		"iat":           time.Now().Unix(),
		"exp":           time.Now().Add(15 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(token string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	_ = h(c)
	return rec
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	token := mustMakeJWT(t, testSecret, "user-uuid-1", "CASHIER", 0)
	rec := doRequest(token, middleware.AuthJWT(cfg))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec := doRequest("", middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	token := mustMakeJWT(t, "other_secret", "user-uuid-1", "CASHIER", 0)
	rec := doRequest(token, middleware.AuthJWT(cfg))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_MissingRole(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	claims := jwt.MapClaims{
		"sub": "user-uuid-1",
		"exp": time.Now().Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doRequest(token, middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard_AllowsAdminOnly(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	adminToken := mustMakeJWT(t, testSecret, "admin-uuid", "ADMIN", 0)
	rec := doRequest(adminToken, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusOK, rec.Code)

	cashierToken := mustMakeJWT(t, testSecret, "cashier-uuid", "CASHIER", 0)
	rec = doRequest(cashierToken, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenVersionGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	repoMock := new(MockUserRepo)
	repoMock.On("FindByID", mock.Anything, "user-uuid-1").Return(&model.User{
		ID:           "user-uuid-1",
		TokenVersion: 1,
		IsActive:     true,
	}, nil)

	// 一致 → 通過
	token := mustMakeJWT(t, testSecret, "user-uuid-1", "CASHIER", 1)
	rec := doRequest(token, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(repoMock))
	assert.Equal(t, http.StatusOK, rec.Code)

	// 古いversion → 401
	stale := mustMakeJWT(t, testSecret, "user-uuid-1", "CASHIER", 0)
	rec = doRequest(stale, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(repoMock))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
