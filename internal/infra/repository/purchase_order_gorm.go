package repository

import (
	"context"
	"errors"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderGormRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderGormRepository(db *gorm.DB) *PurchaseOrderGormRepository {
	return &PurchaseOrderGormRepository{db: db}
}

func (r *PurchaseOrderGormRepository) Create(ctx context.Context, po model.PurchaseOrder) (model.PurchaseOrder, error) {
	if err := r.db.WithContext(ctx).Create(&po).Error; err != nil {
		return model.PurchaseOrder{}, err
	}
	return po, nil
}

func (r *PurchaseOrderGormRepository) FindByID(ctx context.Context, id int64) (model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&po, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PurchaseOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	return po, nil
}

// ヘッダをFOR UPDATEで取り、その後に明細をロードする
func (r *PurchaseOrderGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&po, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PurchaseOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PurchaseOrder{}, err
	}

	if err := r.db.WithContext(ctx).Where("purchase_order_id = ?", id).Find(&po.Items).Error; err != nil {
		return model.PurchaseOrder{}, err
	}
	return po, nil
}

func (r *PurchaseOrderGormRepository) List(ctx context.Context, f repo.PurchaseOrderListFilter) ([]model.PurchaseOrder, int64, error) {
	var pos []model.PurchaseOrder
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.PurchaseOrder{})

	if f.SupplierID != nil {
		tx = tx.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.PurchaseOrder{}, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	err := tx.Preload("Items").
		Order("order_date desc").Order("id desc").
		Offset(offset).Limit(f.Limit).
		Find(&pos).Error
	if err != nil {
		return []model.PurchaseOrder{}, 0, err
	}

	return pos, total, nil
}

// Draft中のヘッダ更新＋明細差し替え
func (r *PurchaseOrderGormRepository) UpdateDraft(ctx context.Context, po model.PurchaseOrder) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ?", po.ID).
		Updates(map[string]interface{}{
			"supplier_id":      po.SupplierID,
			"order_date":       po.OrderDate,
			"transaction_date": po.TransactionDate,
			"expected_date":    po.ExpectedDate,
			"description":      po.Description,
			"remarks":          po.Remarks,
			"total_amount":     po.TotalAmount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	if err := r.db.WithContext(ctx).Where("purchase_order_id = ?", po.ID).Delete(&model.PurchaseItem{}).Error; err != nil {
		return err
	}
	for i := range po.Items {
		po.Items[i].ID = 0
		po.Items[i].PurchaseOrderID = po.ID
	}
	if len(po.Items) > 0 {
		if err := r.db.WithContext(ctx).Create(&po.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PurchaseOrderGormRepository) UpdateStatus(ctx context.Context, id int64, status model.PurchaseOrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderGormRepository) StampApproval(ctx context.Context, id int64, approvedBy string, approvedDate time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"approved_by":   approvedBy,
			"approved_date": approvedDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderGormRepository) MarkCancelled(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.PurchaseOrderStatusCancelled,
			"is_cancelled": true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 入荷数量を加算する。該当商品の明細が無ければ何もしない（元仕様どおり）。
func (r *PurchaseOrderGormRepository) AddReceivedQuantity(ctx context.Context, purchaseOrderID int64, productID int64, qty int64) error {
	return r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Where("purchase_order_id = ? AND product_id = ?", purchaseOrderID, productID).
		Update("received_quantity", gorm.Expr("received_quantity + ?", qty)).Error
}
