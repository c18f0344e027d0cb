package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
)

type PurchaseOrderListFilter struct {
	Page       int
	Limit      int
	SupplierID *int64
	Status     *model.PurchaseOrderStatus
}

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po model.PurchaseOrder) (model.PurchaseOrder, error)

	FindByID(ctx context.Context, id int64) (model.PurchaseOrder, error)

	// ヘッダ行を FOR UPDATE で取得してから明細をロードする
	FindByIDForUpdate(ctx context.Context, id int64) (model.PurchaseOrder, error)

	List(ctx context.Context, f PurchaseOrderListFilter) ([]model.PurchaseOrder, int64, error)

	// Draft中のヘッダ更新＋明細差し替え
	UpdateDraft(ctx context.Context, po model.PurchaseOrder) error

	UpdateStatus(ctx context.Context, id int64, status model.PurchaseOrderStatus) error
	StampApproval(ctx context.Context, id int64, approvedBy string, approvedDate time.Time) error
	MarkCancelled(ctx context.Context, id int64) error

	// リンクされた入庫のActivateが入荷数量を加算する。
	// 該当商品の明細が無い場合は何もしない（入庫側の自由明細を許す、元仕様どおり）。
	AddReceivedQuantity(ctx context.Context, purchaseOrderID int64, productID int64, qty int64) error
}
