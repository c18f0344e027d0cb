package model

import "time"

// 売上と同一トランザクションで作られる1:1の請求書レコード。
type Invoice struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"invoice_number"`
	SaleID        int64     `gorm:"not null;uniqueIndex" json:"sale_id"`
	InvoiceDate   time.Time `gorm:"not null" json:"invoice_date"`
	IsPrinted     bool      `gorm:"not null;default:false" json:"is_printed"`
}
