package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 入庫伝票のステータス。
// Draft -> Active（計上）、Active -> Draft（逆仕訳）、Draft -> Cancelled（終端）。
type ReceivingStatus string

const (
	ReceivingStatusDraft     ReceivingStatus = "DRAFT"
	ReceivingStatusActive    ReceivingStatus = "ACTIVE"
	ReceivingStatusCancelled ReceivingStatus = "CANCELLED"
)

// 合法な遷移だけを列挙した遷移表
var receivingTransitions = map[ReceivingStatus][]ReceivingStatus{
	ReceivingStatusDraft:     {ReceivingStatusActive, ReceivingStatusCancelled},
	ReceivingStatusActive:    {ReceivingStatusDraft},
	ReceivingStatusCancelled: {},
}

func (s ReceivingStatus) CanTransition(to ReceivingStatus) bool {
	for _, next := range receivingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// 遷移表に無い辺は InvalidTransitionError
func (s ReceivingStatus) Transition(to ReceivingStatus) (ReceivingStatus, error) {
	if !s.CanTransition(to) {
		return s, &InvalidTransitionError{Document: "inventory receiving", From: string(s), To: string(to)}
	}
	return to, nil
}

// 入庫伝票。Activeへの遷移で在庫と（紐付けがあれば）発注の入荷数量を動かす。
type InventoryReceiving struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	IRNumber        string `gorm:"type:varchar(20);not null;uniqueIndex" json:"ir_number"`
	SupplierID      int64  `gorm:"not null;index" json:"supplier_id"`
	PurchaseOrderID *int64 `gorm:"index" json:"purchase_order_id,omitempty"`

	ReceivingDate       time.Time  `gorm:"not null" json:"receiving_date"`
	Description         string     `gorm:"type:text" json:"description"`
	SupplierInvoiceNo   string     `gorm:"type:varchar(100)" json:"supplier_invoice_no"`
	SupplierInvoiceDate *time.Time `json:"supplier_invoice_date,omitempty"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	Status      ReceivingStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`

	PostedBy   *string    `gorm:"type:varchar(36)" json:"posted_by,omitempty"`
	PostedDate *time.Time `json:"posted_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Items []InventoryReceivingItem `gorm:"foreignKey:ReceivingID" json:"items"`
}

type InventoryReceivingItem struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ReceivingID int64 `gorm:"not null;index" json:"receiving_id"`
	ProductID   int64 `gorm:"not null;index" json:"product_id"`

	Quantity  int64           `gorm:"not null" json:"quantity"`
	CostPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// 明細の小計と伝票合計を計算して埋める
func (ir *InventoryReceiving) ComputeTotals() {
	total := decimal.Zero
	for i := range ir.Items {
		it := &ir.Items[i]
		it.Subtotal = it.CostPrice.Mul(decimal.NewFromInt(it.Quantity)).Round(2)
		total = total.Add(it.Subtotal)
	}
	ir.TotalAmount = total.Round(2)
}
