package repository

import (
	"context"

	"pos/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	ActiveOnly bool
}

// 商品カタログの永続化だけを約束。在庫数の書き換えはInventoryRepositoryが持つ。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (model.Product, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	// 伝票明細（売上・入庫・発注）から参照されているか。
	// 参照されている商品の削除は拒否する。
	IsReferencedByDocuments(ctx context.Context, id int64) (bool, error)
}
