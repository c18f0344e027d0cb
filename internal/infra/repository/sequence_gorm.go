package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"

	"gorm.io/gorm"
)

type SequenceGormRepository struct {
	db *gorm.DB
}

func NewSequenceGormRepository(db *gorm.DB) *SequenceGormRepository {
	return &SequenceGormRepository{db: db}
}

// カウンタ行を1文でインクリメントして新しい連番を返す。
// 初日の1件目（行が無い）も同じ文で処理されるので、同時採番しても
// 行ロックで直列化されて重複しない。
func (r *SequenceGormRepository) Next(ctx context.Context, kind model.DocumentKind, day time.Time) (int64, error) {
	var lastNo int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (kind, day, last_no)
		VALUES (?, ?, 1)
		ON CONFLICT (kind, day)
		DO UPDATE SET last_no = document_sequences.last_no + 1
		RETURNING last_no`,
		string(kind), day.Format("20060102"),
	).Scan(&lastNo).Error
	if err != nil {
		return 0, err
	}
	return lastNo, nil
}
