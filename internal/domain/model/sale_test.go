package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleComputeTotals(t *testing.T) {
	s := Sale{
		Items: []SaleItem{
			{Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
			{Quantity: 1, UnitPrice: decimal.RequireFromString("199.99"), Discount: decimal.RequireFromString("9.99")},
		},
	}
	s.ComputeTotals()

	assert.True(t, s.Items[0].Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.Items[1].Subtotal.Equal(decimal.NewFromInt(190)))
	assert.True(t, s.SubTotal.Equal(decimal.NewFromInt(1190)))
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(1190)))
}

func TestSaleComputeTotals_PercentageDiscount(t *testing.T) {
	s := Sale{
		DiscountPercentage: decimal.NewFromInt(10),
		Items: []SaleItem{
			{Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
		},
	}
	s.ComputeTotals()

	// 率指定は金額に展開される
	assert.True(t, s.DiscountAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(270)))
}

func TestSaleComputeTotals_FixedDiscount(t *testing.T) {
	s := Sale{
		DiscountAmount: decimal.NewFromInt(50),
		Items: []SaleItem{
			{Quantity: 1, UnitPrice: decimal.NewFromInt(500)},
		},
	}
	s.ComputeTotals()

	assert.True(t, s.SubTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(450)))
}

func TestPaymentModeValid(t *testing.T) {
	assert.True(t, PaymentModeCash.Valid())
	assert.True(t, PaymentModeBankTransfer.Valid())
	assert.False(t, PaymentMode("BITCOIN").Valid())
	assert.False(t, PaymentMode("").Valid())
}

func TestProductIsLowStock(t *testing.T) {
	p := Product{IsActive: true, StockQuantity: 10, ReorderLevel: 10}
	assert.True(t, p.IsLowStock())

	p.StockQuantity = 11
	assert.False(t, p.IsLowStock())

	// 停止品は発注対象にしない
	p.StockQuantity = 0
	p.IsActive = false
	assert.False(t, p.IsLowStock())
}
