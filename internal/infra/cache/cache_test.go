package cache

import (
	"context"
	"testing"
	"time"

	"pos/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestNoopDashboardCache(t *testing.T) {
	var c usecase.DashboardCache = NoopDashboardCache{}

	got, hit, err := c.Get(context.Background(), "dashboard:summary")
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)

	// Setは黙って捨てる
	err = c.Set(context.Background(), "dashboard:summary", &usecase.DashboardSummary{}, 30*time.Second)
	assert.NoError(t, err)
}
