package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品カテゴリ
type ProductCategory struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

type Product struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Barcode    string `gorm:"type:varchar(64);not null;uniqueIndex" json:"barcode"`
	CategoryID int64  `gorm:"index" json:"category_id"`
	SupplierID int64  `gorm:"index" json:"supplier_id"`

	CostPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	SalePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`

	// 在庫数は在庫台帳（InventoryRepository）だけが書き換える
	StockQuantity int64 `gorm:"not null;default:0" json:"stock_quantity"`
	ReorderLevel  int64 `gorm:"not null;default:10" json:"reorder_level"`

	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Category *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// 発注点を下回っているか
func (p Product) IsLowStock() bool {
	return p.IsActive && p.StockQuantity <= p.ReorderLevel
}
