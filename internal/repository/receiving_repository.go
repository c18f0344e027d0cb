package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
)

type ReceivingListFilter struct {
	Page       int
	Limit      int
	SupplierID *int64
	Status     *model.ReceivingStatus
}

type ReceivingRepository interface {
	Create(ctx context.Context, ir model.InventoryReceiving) (model.InventoryReceiving, error)

	FindByID(ctx context.Context, id int64) (model.InventoryReceiving, error)

	// ヘッダ行を FOR UPDATE で取得してから明細をロードする。
	// 状態遷移は必ずこちらで読む（同時Activateの二重計上防止）。
	FindByIDForUpdate(ctx context.Context, id int64) (model.InventoryReceiving, error)

	List(ctx context.Context, f ReceivingListFilter) ([]model.InventoryReceiving, int64, error)

	// Draft中のヘッダ更新＋明細差し替え
	UpdateDraft(ctx context.Context, ir model.InventoryReceiving) error

	// 状態と計上者の刻印をまとめて書き込む
	SetPosting(ctx context.Context, id int64, status model.ReceivingStatus, postedBy *string, postedDate *time.Time) error
}
