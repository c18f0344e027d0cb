package repository

import (
	"context"

	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	sales          repo.SaleRepository
	invoices       repo.InvoiceRepository
	receivings     repo.ReceivingRepository
	purchaseOrders repo.PurchaseOrderRepository
	inventory      repo.InventoryRepository
	products       repo.ProductRepository
	sequences      repo.SequenceRepository
}

func (r *txReposGorm) Sales() repo.SaleRepository                   { return r.sales }
func (r *txReposGorm) Invoices() repo.InvoiceRepository             { return r.invoices }
func (r *txReposGorm) Receivings() repo.ReceivingRepository         { return r.receivings }
func (r *txReposGorm) PurchaseOrders() repo.PurchaseOrderRepository { return r.purchaseOrders }
func (r *txReposGorm) Inventory() repo.InventoryRepository          { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository             { return r.products }
func (r *txReposGorm) Sequences() repo.SequenceRepository           { return r.sequences }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			sales:          NewSaleGormRepository(tx),
			invoices:       NewInvoiceGormRepository(tx),
			receivings:     NewReceivingGormRepository(tx),
			purchaseOrders: NewPurchaseOrderGormRepository(tx),
			inventory:      NewInventoryGormRepository(tx),
			products:       NewProductGormRepository(tx),
			sequences:      NewSequenceGormRepository(tx),
		}
		return fn(r)
	})
}
