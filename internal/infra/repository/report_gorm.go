package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// dayの0時から翌0時まで
func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *ReportGormRepository) SalesTotalForDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	start, end := dayRange(day)
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ReportGormRepository) SalesCountForDay(ctx context.Context, day time.Time) (int64, error) {
	start, end := dayRange(day)
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReportGormRepository) SalesTotalAllTime(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Activeな発注の合計金額
func (r *ReportGormRepository) ActivePurchaseTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("status = ?", model.PurchaseOrderStatusActive).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ReportGormRepository) TopCustomers(ctx context.Context, n int) ([]repo.TopCustomerRow, error) {
	var rows []repo.TopCustomerRow
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("customers.display_name AS display_name, SUM(sales.total_amount) AS total_amount").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Group("customers.display_name").
		Order("total_amount DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return []repo.TopCustomerRow{}, err
	}
	return rows, nil
}

func (r *ReportGormRepository) TopProductsByQuantity(ctx context.Context, n int) ([]repo.TopProductRow, error) {
	var rows []repo.TopProductRow
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("products.name AS product_name, SUM(sale_items.quantity) AS total_quantity").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Group("products.name").
		Order("total_quantity DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return []repo.TopProductRow{}, err
	}
	return rows, nil
}

func (r *ReportGormRepository) QuantityByCategory(ctx context.Context) ([]repo.CategorySalesRow, error) {
	var rows []repo.CategorySalesRow
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("product_categories.name AS category_name, SUM(sale_items.quantity) AS total_quantity").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN product_categories ON product_categories.id = products.category_id").
		Group("product_categories.name").
		Order("total_quantity DESC").
		Scan(&rows).Error
	if err != nil {
		return []repo.CategorySalesRow{}, err
	}
	return rows, nil
}

// 在庫評価額（原価×在庫数）
func (r *ReportGormRepository) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(cost_price * stock_quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ReportGormRepository) CustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *ReportGormRepository) ProductCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
