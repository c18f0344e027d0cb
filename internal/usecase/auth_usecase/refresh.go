package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"pos/internal/domain/model"
	"pos/internal/repository"
)

// 無効・期限切れ・使用済みのリフレッシュトークン
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type RefreshInput struct {
	PlainRefreshToken string
	UserAgent         string
}

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

type RefreshSideEffect struct {
	PlainRefreshToken string
}

// リフレッシュトークンのローテーション。
// 古いトークンをUsedにして新しいトークンを発行する。再利用は拒否。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (RefreshOutput, RefreshSideEffect, error) {
	var out RefreshOutput
	var side RefreshSideEffect

	if in.PlainRefreshToken == "" {
		return out, side, ErrInvalidRefreshToken
	}

	hash := sha256.Sum256([]byte(in.PlainRefreshToken))
	stored, err := u.rtRepo.FindByHash(ctx, hex.EncodeToString(hash[:]))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}

	now := u.clock.Now()
	if stored.RevokedAt != nil || stored.UsedAt != nil || now.After(stored.ExpiresAt) {
		return out, side, ErrInvalidRefreshToken
	}

	user, err := u.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}
	if !user.IsActive {
		return out, side, ErrUserInactive
	}

	// 旧トークンを消費
	if err := u.rtRepo.MarkUsed(ctx, stored.ID); err != nil {
		return out, side, err
	}

	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return out, side, err
	}

	plainRefresh, err := generateSecureToken(32)
	if err != nil {
		return out, side, err
	}
	newHash := sha256.Sum256([]byte(plainRefresh))

	if err := u.rtRepo.Create(ctx, &model.RefreshToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hex.EncodeToString(newHash[:]),
		UserAgent: in.UserAgent,
		ExpiresAt: now.Add(u.refreshTTL),
	}); err != nil {
		return out, side, err
	}

	out.Token = JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}
	side.PlainRefreshToken = plainRefresh
	return out, side, nil
}
