package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 発注伝票のステータス。
// Draft -> Active -> Completed、Draft/Active -> Cancelled。Completed と Cancelled は終端。
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusActive    PurchaseOrderStatus = "ACTIVE"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusDraft:     {PurchaseOrderStatusActive, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusActive:    {PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusCompleted: {},
	PurchaseOrderStatusCancelled: {},
}

func (s PurchaseOrderStatus) CanTransition(to PurchaseOrderStatus) bool {
	for _, next := range purchaseOrderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s PurchaseOrderStatus) Transition(to PurchaseOrderStatus) (PurchaseOrderStatus, error) {
	if !s.CanTransition(to) {
		return s, &InvalidTransitionError{Document: "purchase order", From: string(s), To: string(to)}
	}
	return to, nil
}

type PurchaseOrder struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PONumber   string `gorm:"type:varchar(20);not null;uniqueIndex" json:"po_number"`
	SupplierID int64  `gorm:"not null;index" json:"supplier_id"`

	OrderDate       time.Time  `gorm:"not null" json:"order_date"`
	TransactionDate time.Time  `gorm:"not null" json:"transaction_date"`
	ExpectedDate    *time.Time `json:"expected_date,omitempty"`
	Description     string     `gorm:"type:text" json:"description"`
	Remarks         string     `gorm:"type:text" json:"remarks"`

	TotalAmount decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	IsCancelled bool                `gorm:"not null;default:false" json:"is_cancelled"`

	ApprovedBy   *string    `gorm:"type:varchar(36)" json:"approved_by,omitempty"`
	ApprovedDate *time.Time `json:"approved_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
}

type PurchaseItem struct {
	ID              int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseOrderID int64 `gorm:"not null;index" json:"purchase_order_id"`
	ProductID       int64 `gorm:"not null;index" json:"product_id"`

	Quantity int64 `gorm:"not null" json:"quantity"`
	// 入荷数量は単調非減少。リンクされた入庫のActivateだけが加算する。
	ReceivedQuantity int64           `gorm:"not null;default:0" json:"received_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// 明細金額（数量×単価）と伝票合計を計算して埋める
func (po *PurchaseOrder) ComputeTotals() {
	total := decimal.Zero
	for i := range po.Items {
		it := &po.Items[i]
		it.Amount = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).Round(2)
		total = total.Add(it.Amount)
	}
	po.TotalAmount = total.Round(2)
}

// 全明細が発注数量まで入荷済みか
func (po *PurchaseOrder) FullyReceived() bool {
	if len(po.Items) == 0 {
		return false
	}
	for _, it := range po.Items {
		if it.ReceivedQuantity < it.Quantity {
			return false
		}
	}
	return true
}
