package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
)

// 伝票番号の日次連番。
// Nextは「伝票種別×日付」のカウンタ行をアトミックにインクリメントして返す。
// 伝票ヘッダのINSERTと同じトランザクション内で呼ぶこと。独立トランザクションで
// 採番すると、同日同時作成で番号が重複しうる。
type SequenceRepository interface {
	Next(ctx context.Context, kind model.DocumentKind, day time.Time) (int64, error)
}
