package cache

import (
	"context"
	"time"

	"pos/internal/usecase"
)

// Redis未設定のときに使うダッシュボードキャッシュ
type NoopDashboardCache struct{}

func (NoopDashboardCache) Get(_ context.Context, _ string) (*usecase.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (NoopDashboardCache) Set(_ context.Context, _ string, _ *usecase.DashboardSummary, _ time.Duration) error {
	return nil
}
