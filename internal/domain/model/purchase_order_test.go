package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from PurchaseOrderStatus
		to   PurchaseOrderStatus
		ok   bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusActive, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCompleted, false},
		{PurchaseOrderStatusActive, PurchaseOrderStatusCompleted, true},
		{PurchaseOrderStatusActive, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusActive, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCompleted, PurchaseOrderStatusActive, false},
		{PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusActive, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestPurchaseOrderFullyReceived(t *testing.T) {
	po := PurchaseOrder{}
	// 明細が無ければ「全量入荷」とは言わない
	assert.False(t, po.FullyReceived())

	po.Items = []PurchaseItem{
		{Quantity: 5, ReceivedQuantity: 5},
		{Quantity: 2, ReceivedQuantity: 1},
	}
	assert.False(t, po.FullyReceived())

	po.Items[1].ReceivedQuantity = 2
	assert.True(t, po.FullyReceived())

	// 超過入荷も「全量入荷」扱い
	po.Items[1].ReceivedQuantity = 3
	assert.True(t, po.FullyReceived())
}

func TestPurchaseOrderComputeTotals(t *testing.T) {
	po := PurchaseOrder{
		Items: []PurchaseItem{
			{Quantity: 4, UnitPrice: decimal.RequireFromString("12.50")},
			{Quantity: 1, UnitPrice: decimal.NewFromInt(300)},
		},
	}
	po.ComputeTotals()

	assert.True(t, po.Items[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(350)))
}
