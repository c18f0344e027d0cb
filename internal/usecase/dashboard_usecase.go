package usecase

import (
	"context"
	"net/http"
	"time"

	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

// ダッシュボード集計の結果。JSONのままRedisに載る。
type DashboardSummary struct {
	TodaySalesTotal decimal.Decimal `json:"today_sales_total"`
	TodaySalesCount int64           `json:"today_sales_count"`
	SalesTotal      decimal.Decimal `json:"sales_total"`
	ActivePOTotal   decimal.Decimal `json:"active_po_total"`
	StockValue      decimal.Decimal `json:"stock_value"`
	CustomerCount   int64           `json:"customer_count"`
	ProductCount    int64           `json:"product_count"`

	TopCustomers    []repo.TopCustomerRow   `json:"top_customers"`
	TopProducts     []repo.TopProductRow    `json:"top_products"`
	SalesByCategory []repo.CategorySalesRow `json:"sales_by_category"`

	LowStock []LowStockRow `json:"low_stock"`

	GeneratedAt time.Time `json:"generated_at"`
}

type LowStockRow struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
	ReorderLevel  int64  `json:"reorder_level"`
}

// 集計結果のキャッシュ。Redisが無い構成ではnoop実装を差す。
type DashboardCache interface {
	Get(ctx context.Context, key string) (*DashboardSummary, bool, error)
	Set(ctx context.Context, key string, value *DashboardSummary, ttl time.Duration) error
}

type DashboardUsecase struct {
	reports  repo.ReportRepository
	products repo.ProductRepository
	cache    DashboardCache
	clock    Clock
	log      *logrus.Logger
}

func NewDashboardUsecase(
	reports repo.ReportRepository,
	products repo.ProductRepository,
	cache DashboardCache,
	clock Clock,
	log *logrus.Logger,
) *DashboardUsecase {
	return &DashboardUsecase{reports: reports, products: products, cache: cache, clock: clock, log: log}
}

// キャッシュ越しにダッシュボード集計を返す。
// キャッシュ障害は集計の失敗にしない（ログだけ出してDBへ行く）。
func (u *DashboardUsecase) Summary(ctx context.Context) (DashboardSummary, error) {
	if cached, ok, err := u.cache.Get(ctx, dashboardCacheKey); err != nil {
		u.log.WithError(err).Warn("dashboard cache get failed")
	} else if ok {
		return *cached, nil
	}

	summary, err := u.build(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	if err := u.cache.Set(ctx, dashboardCacheKey, &summary, dashboardCacheTTL); err != nil {
		u.log.WithError(err).Warn("dashboard cache set failed")
	}
	return summary, nil
}

func (u *DashboardUsecase) build(ctx context.Context) (DashboardSummary, error) {
	now := u.clock.Now()
	s := DashboardSummary{GeneratedAt: now}

	var err error
	if s.TodaySalesTotal, err = u.reports.SalesTotalForDay(ctx, now); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.TodaySalesCount, err = u.reports.SalesCountForDay(ctx, now); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.SalesTotal, err = u.reports.SalesTotalAllTime(ctx); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.ActivePOTotal, err = u.reports.ActivePurchaseTotal(ctx); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.StockValue, err = u.reports.StockValue(ctx); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.CustomerCount, err = u.reports.CustomerCount(ctx); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.ProductCount, err = u.reports.ProductCount(ctx); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.TopCustomers, err = u.reports.TopCustomers(ctx, 5); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.TopProducts, err = u.reports.TopProductsByQuantity(ctx, 5); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.SalesByCategory, err = u.reports.QuantityByCategory(ctx); err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	low, err := u.products.ListLowStock(ctx)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, p := range low {
		s.LowStock = append(s.LowStock, LowStockRow{
			ProductID:     p.ID,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			ReorderLevel:  p.ReorderLevel,
		})
	}

	return s, nil
}
