package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) SalesTotalForDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *ReportRepoMock) SalesCountForDay(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReportRepoMock) SalesTotalAllTime(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *ReportRepoMock) ActivePurchaseTotal(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *ReportRepoMock) TopCustomers(ctx context.Context, n int) ([]repo.TopCustomerRow, error) {
	args := m.Called(ctx, n)
	rows, _ := args.Get(0).([]repo.TopCustomerRow)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) TopProductsByQuantity(ctx context.Context, n int) ([]repo.TopProductRow, error) {
	args := m.Called(ctx, n)
	rows, _ := args.Get(0).([]repo.TopProductRow)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) QuantityByCategory(ctx context.Context) ([]repo.CategorySalesRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.CategorySalesRow)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) StockValue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *ReportRepoMock) CustomerCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReportRepoMock) ProductCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// テスト用キャッシュ
type memCache struct {
	stored   *usecase.DashboardSummary
	getErr   error
	setErr   error
	setCalls int
}

func (c *memCache) Get(_ context.Context, _ string) (*usecase.DashboardSummary, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.stored == nil {
		return nil, false, nil
	}
	return c.stored, true, nil
}

func (c *memCache) Set(_ context.Context, _ string, v *usecase.DashboardSummary, _ time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.stored = v
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func stubAllReports(reports *ReportRepoMock) {
	reports.On("SalesTotalForDay", mock.Anything, mock.Anything).Return(decimal.NewFromInt(500), nil)
	reports.On("SalesCountForDay", mock.Anything, mock.Anything).Return(int64(3), nil)
	reports.On("SalesTotalAllTime", mock.Anything).Return(decimal.NewFromInt(9000), nil)
	reports.On("ActivePurchaseTotal", mock.Anything).Return(decimal.NewFromInt(1200), nil)
	reports.On("StockValue", mock.Anything).Return(decimal.NewFromInt(33000), nil)
	reports.On("CustomerCount", mock.Anything).Return(int64(12), nil)
	reports.On("ProductCount", mock.Anything).Return(int64(80), nil)
	reports.On("TopCustomers", mock.Anything, 5).Return([]repo.TopCustomerRow{{DisplayName: "A", TotalAmount: decimal.NewFromInt(100)}}, nil)
	reports.On("TopProductsByQuantity", mock.Anything, 5).Return([]repo.TopProductRow{{ProductName: "P", TotalQuantity: 9}}, nil)
	reports.On("QuantityByCategory", mock.Anything).Return([]repo.CategorySalesRow{}, nil)
}

func TestDashboardSummary_BuildsAndCaches(t *testing.T) {
	reports := new(ReportRepoMock)
	products := new(ProductRepoMock)
	cache := &memCache{}

	stubAllReports(reports)
	products.On("ListLowStock", mock.Anything).Return([]model.Product{
		{ID: 1, Name: "Lens", StockQuantity: 2, ReorderLevel: 10, IsActive: true},
	}, nil)

	uc := usecase.NewDashboardUsecase(reports, products, cache, fixedClock{testDay}, quietLogger())

	out, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, out.TodaySalesTotal.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, int64(3), out.TodaySalesCount)
	require.Len(t, out.LowStock, 1)
	assert.Equal(t, "Lens", out.LowStock[0].Name)
	assert.Equal(t, 1, cache.setCalls)

	// 2回目はキャッシュから返る（repoは再照会されない）
	reports.Calls = nil
	out2, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out.TodaySalesCount, out2.TodaySalesCount)
	reports.AssertNotCalled(t, "SalesTotalForDay", mock.Anything, mock.Anything)
}

// キャッシュ障害は無視してDBから組み立てる
func TestDashboardSummary_CacheErrorIgnored(t *testing.T) {
	reports := new(ReportRepoMock)
	products := new(ProductRepoMock)
	cache := &memCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}

	stubAllReports(reports)
	products.On("ListLowStock", mock.Anything).Return([]model.Product{}, nil)

	uc := usecase.NewDashboardUsecase(reports, products, cache, fixedClock{testDay}, quietLogger())

	out, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.CustomerCount)
}
