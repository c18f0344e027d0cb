package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ダッシュボード用の集計ビュー
type TopCustomerRow struct {
	DisplayName string          `json:"display_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type TopProductRow struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

type CategorySalesRow struct {
	CategoryName  string `json:"category_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

// 読み取り専用の集計クエリ。台帳状態の派生ビューであって、コアの一部ではない。
type ReportRepository interface {
	SalesTotalForDay(ctx context.Context, day time.Time) (decimal.Decimal, error)
	SalesCountForDay(ctx context.Context, day time.Time) (int64, error)
	SalesTotalAllTime(ctx context.Context) (decimal.Decimal, error)

	// Activeな発注の合計金額
	ActivePurchaseTotal(ctx context.Context) (decimal.Decimal, error)

	TopCustomers(ctx context.Context, n int) ([]TopCustomerRow, error)
	TopProductsByQuantity(ctx context.Context, n int) ([]TopProductRow, error)
	QuantityByCategory(ctx context.Context) ([]CategorySalesRow, error)

	// 在庫評価額（原価×在庫数）
	StockValue(ctx context.Context) (decimal.Decimal, error)

	CustomerCount(ctx context.Context) (int64, error)
	ProductCount(ctx context.Context) (int64, error)
}
