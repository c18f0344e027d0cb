package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// ヘッダと明細をまとめてINSERT（gormのassociationで1回のCreate）
func (r *SaleGormRepository) Create(ctx context.Context, s model.Sale) (model.Sale, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) FindByID(ctx context.Context, id int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Invoice").
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) List(ctx context.Context, f repo.SaleListFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Sale{})

	if f.From != nil {
		tx = tx.Where("sale_date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("sale_date < ?", *f.To)
	}
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Sale{}, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	err := tx.Preload("Items").
		Order("sale_date desc").Order("id desc").
		Offset(offset).Limit(f.Limit).
		Find(&sales).Error
	if err != nil {
		return []model.Sale{}, 0, err
	}

	return sales, total, nil
}

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) FindBySaleID(ctx context.Context, saleID int64) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Invoice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}
