package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
)

type SaleListFilter struct {
	Page   int
	Limit  int
	From   *time.Time
	To     *time.Time
	UserID string
}

type SaleRepository interface {
	// ヘッダと明細をまとめて作成する
	Create(ctx context.Context, s model.Sale) (model.Sale, error)

	FindByID(ctx context.Context, id int64) (model.Sale, error)
	List(ctx context.Context, f SaleListFilter) ([]model.Sale, int64, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv model.Invoice) (model.Invoice, error)
	FindBySaleID(ctx context.Context, saleID int64) (model.Invoice, error)
}
