package model

// 伝票種別×日付のカウンタ行。伝票と同一トランザクション内で
// アトミックにインクリメントして採番する。
type DocumentSequence struct {
	Kind   DocumentKind `gorm:"type:varchar(20);primaryKey" json:"kind"`
	Day    string       `gorm:"type:varchar(8);primaryKey" json:"day"` // yyyyMMdd
	LastNo int64        `gorm:"not null" json:"last_no"`
}
