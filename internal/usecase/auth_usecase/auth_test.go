package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"pos/internal/domain/model"
	"pos/internal/repository"
	auth "pos/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepoMock) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, rt *model.RefreshToken) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type stubIssuer struct{}

func (stubIssuer) Issue(userID string, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	return "signed-token", now.Add(15 * time.Minute), nil
}

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

// =====================
// Register
// =====================

func TestRegister_InvalidEmail(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), auth.NewBcryptPasswordHasher(4), fixedIDGen{"id"}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "not-an-email", Password: "longenoughpassword"})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), auth.NewBcryptPasswordHasher(4), fixedIDGen{"id"}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegister_WeakPassword(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), auth.NewBcryptPasswordHasher(4), fixedIDGen{"id"}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "a@example.com", Password: "123456789012"})
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestRegister_InvalidRole(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), auth.NewBcryptPasswordHasher(4), fixedIDGen{"id"}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "a@example.com", Password: "validpassword42", Role: "SUPERUSER",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: "existing"}, nil)

	uc := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(4), fixedIDGen{"id"}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "a@example.com", Password: "validpassword42"})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "new-id" && u.Role == model.RoleAdmin && u.PasswordHash != "" && u.IsActive
	})).Return(nil)

	uc := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(4), fixedIDGen{"new-id"}, fixedClock{testNow})

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "a@example.com", Password: "validpassword42", DisplayName: "Admin A", Role: "ADMIN",
	})
	require.NoError(t, err)
	// レスポンスにハッシュは載せない
	assert.Empty(t, out.User.PasswordHash)
	assert.Equal(t, "Admin A", out.User.DisplayName)
	userRepo.AssertExpectations(t)
}

// =====================
// Login
// =====================

func loginFixture(t *testing.T) (*UserRepoMock, *RefreshTokenRepoMock, *auth.LoginUsecase, string) {
	t.Helper()

	hasher := auth.NewBcryptPasswordHasher(4)
	hashed, err := hasher.Hash("correcthorsebattery")
	require.NoError(t, err)

	userRepo := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := auth.NewLoginUsecase(userRepo, rtRepo, auth.NewBcryptPasswordVerifier(), stubIssuer{}, fixedIDGen{"rt-id"}, fixedClock{testNow}, 14*24*time.Hour)
	return userRepo, rtRepo, uc, hashed
}

func TestLogin_Success(t *testing.T) {
	userRepo, rtRepo, uc, hashed := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID: "u1", Email: "a@example.com", PasswordHash: hashed, IsActive: true,
	}, nil)
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == "u1" && rt.TokenHash != "" && rt.ExpiresAt.After(testNow)
	})).Return(nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	out, side, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "correcthorsebattery"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token.AccessToken)
	assert.Empty(t, out.User.PasswordHash)
	assert.NotEmpty(t, side.PlainRefreshToken)
	rtRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo, _, uc, hashed := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID: "u1", PasswordHash: hashed, IsActive: true,
	}, nil)

	_, _, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo, _, uc, _ := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "x@example.com").Return(nil, repository.ErrUserNotFound)

	_, _, err := uc.Execute(context.Background(), auth.LoginInput{Email: "x@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo, _, uc, hashed := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID: "u1", PasswordHash: hashed, IsActive: false,
	}, nil)

	_, _, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "correcthorsebattery"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

// =====================
// Refresh
// =====================

func TestRefresh_RotatesToken(t *testing.T) {
	userRepo := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := auth.NewRefreshUsecase(userRepo, rtRepo, stubIssuer{}, fixedIDGen{"new-rt"}, fixedClock{testNow}, 14*24*time.Hour)

	plain := "old-refresh-token"
	hash := sha256.Sum256([]byte(plain))
	stored := &model.RefreshToken{
		ID:        "old-rt",
		UserID:    "u1",
		TokenHash: hex.EncodeToString(hash[:]),
		ExpiresAt: testNow.Add(time.Hour),
	}

	rtRepo.On("FindByHash", mock.Anything, stored.TokenHash).Return(stored, nil)
	userRepo.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", IsActive: true}, nil)
	rtRepo.On("MarkUsed", mock.Anything, "old-rt").Return(nil)
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.ID == "new-rt" && rt.UserID == "u1" && rt.TokenHash != stored.TokenHash
	})).Return(nil)

	out, side, err := uc.Execute(context.Background(), auth.RefreshInput{PlainRefreshToken: plain})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token.AccessToken)
	assert.NotEmpty(t, side.PlainRefreshToken)
	rtRepo.AssertExpectations(t)
}

func TestRefresh_UsedTokenRejected(t *testing.T) {
	userRepo := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := auth.NewRefreshUsecase(userRepo, rtRepo, stubIssuer{}, fixedIDGen{"new-rt"}, fixedClock{testNow}, 14*24*time.Hour)

	plain := "reused-token"
	hash := sha256.Sum256([]byte(plain))
	used := testNow.Add(-time.Minute)
	rtRepo.On("FindByHash", mock.Anything, hex.EncodeToString(hash[:])).Return(&model.RefreshToken{
		ID: "rt", UserID: "u1", ExpiresAt: testNow.Add(time.Hour), UsedAt: &used,
	}, nil)

	_, _, err := uc.Execute(context.Background(), auth.RefreshInput{PlainRefreshToken: plain})
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_ExpiredTokenRejected(t *testing.T) {
	userRepo := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := auth.NewRefreshUsecase(userRepo, rtRepo, stubIssuer{}, fixedIDGen{"new-rt"}, fixedClock{testNow}, 14*24*time.Hour)

	plain := "expired-token"
	hash := sha256.Sum256([]byte(plain))
	rtRepo.On("FindByHash", mock.Anything, hex.EncodeToString(hash[:])).Return(&model.RefreshToken{
		ID: "rt", UserID: "u1", ExpiresAt: testNow.Add(-time.Hour),
	}, nil)

	_, _, err := uc.Execute(context.Background(), auth.RefreshInput{PlainRefreshToken: plain})
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}
