package model

import "time"

// 在庫調整の履歴。台帳がすべての調整に対して1行書く（リプレイはしない、記録のみ）。
type StockMovement struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	// 符号付き。入庫は正、売上消費と入庫取消は負。
	Delta int64 `gorm:"not null" json:"delta"`

	// どの伝票が原因か（INV... / PO... / IR...）
	DocumentKind   DocumentKind `gorm:"type:varchar(20);not null" json:"document_kind"`
	DocumentNumber string       `gorm:"type:varchar(20);not null;index" json:"document_number"`

	ActorUserID string    `gorm:"type:varchar(36);not null" json:"actor_user_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
