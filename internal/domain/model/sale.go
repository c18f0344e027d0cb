package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCard, PaymentModeUPI, PaymentModeBankTransfer:
		return true
	}
	return false
}

// 売上伝票。確定後は不変（更新・取消の経路は存在しない）。
type Sale struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;index" json:"customer_id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	SaleDate   time.Time `gorm:"not null;index" json:"sale_date"`

	SubTotal           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sub_total"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	AmountPaid         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amount_paid"`

	PaymentMode   PaymentMode `gorm:"type:varchar(20);not null;default:'CASH'" json:"payment_mode"`
	InvoiceNumber string      `gorm:"type:varchar(20);not null;uniqueIndex" json:"invoice_number"`
	Remarks       string      `gorm:"type:text" json:"remarks"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	Invoice *Invoice   `gorm:"foreignKey:SaleID" json:"invoice,omitempty"`
}

type SaleItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    int64 `gorm:"not null;index" json:"sale_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// 明細の小計と伝票の合計を計算して埋める。
// 不変条件: SubTotal == Σ item.Subtotal、TotalAmount == SubTotal - DiscountAmount。
func (s *Sale) ComputeTotals() {
	sub := decimal.Zero
	for i := range s.Items {
		it := &s.Items[i]
		it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).Sub(it.Discount).Round(2)
		sub = sub.Add(it.Subtotal)
	}
	s.SubTotal = sub.Round(2)

	// 割引率が指定されていれば金額に展開する（丸めは2桁）
	if s.DiscountPercentage.IsPositive() {
		s.DiscountAmount = s.SubTotal.Mul(s.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	}
	s.TotalAmount = s.SubTotal.Sub(s.DiscountAmount).Round(2)
}
