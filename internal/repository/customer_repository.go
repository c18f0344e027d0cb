package repository

import (
	"context"

	"pos/internal/domain/model"
)

type CustomerRepository interface {
	List(ctx context.Context, page int, limit int, q string) ([]model.Customer, int64, error)
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	Update(ctx context.Context, c model.Customer) error
	SoftDelete(ctx context.Context, id int64) error

	// 売上が1件でも存在する顧客は削除できない
	HasSales(ctx context.Context, id int64) (bool, error)
}

type SupplierRepository interface {
	List(ctx context.Context, page int, limit int, q string) ([]model.Supplier, int64, error)
	FindByID(ctx context.Context, id int64) (model.Supplier, error)
	Create(ctx context.Context, s model.Supplier) (model.Supplier, error)
	Update(ctx context.Context, s model.Supplier) error
	SoftDelete(ctx context.Context, id int64) error

	// 発注・入庫から参照されている仕入先は削除できない
	HasDocuments(ctx context.Context, id int64) (bool, error)
}
