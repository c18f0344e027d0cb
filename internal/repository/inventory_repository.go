package repository

import (
	"context"

	"pos/internal/domain/model"
)

// 在庫台帳。商品の在庫数を書き換えるのはここだけ。
// すべてのメソッドは呼び出し側のトランザクション内で実行される前提。
type InventoryRepository interface {
	// 符号付きで在庫を加減算する（入庫の計上・取消などの補正経路）。
	// 商品が存在しなければ ErrNotFound。
	AdjustStock(ctx context.Context, productID int64, delta int64) error

	// 在庫が足りるときだけ減算（売上経路。売り越しは拒否する）。
	DecreaseStockIfSufficient(ctx context.Context, productID int64, qty int64) (bool, error)

	// 調整履歴を1行残す
	RecordMovement(ctx context.Context, m model.StockMovement) error
}
