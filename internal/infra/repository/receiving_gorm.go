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

type ReceivingGormRepository struct {
	db *gorm.DB
}

func NewReceivingGormRepository(db *gorm.DB) *ReceivingGormRepository {
	return &ReceivingGormRepository{db: db}
}

func (r *ReceivingGormRepository) Create(ctx context.Context, ir model.InventoryReceiving) (model.InventoryReceiving, error) {
	if err := r.db.WithContext(ctx).Create(&ir).Error; err != nil {
		return model.InventoryReceiving{}, err
	}
	return ir, nil
}

func (r *ReceivingGormRepository) FindByID(ctx context.Context, id int64) (model.InventoryReceiving, error) {
	var ir model.InventoryReceiving
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&ir, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.InventoryReceiving{}, repo.ErrNotFound
	}
	if err != nil {
		return model.InventoryReceiving{}, err
	}
	return ir, nil
}

// ヘッダをFOR UPDATEで取り、その後に明細をロードする。
// 同じ伝票への同時Activate/Deactivateはここで直列化される。
func (r *ReceivingGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.InventoryReceiving, error) {
	var ir model.InventoryReceiving
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ir, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.InventoryReceiving{}, repo.ErrNotFound
	}
	if err != nil {
		return model.InventoryReceiving{}, err
	}

	if err := r.db.WithContext(ctx).Where("receiving_id = ?", id).Find(&ir.Items).Error; err != nil {
		return model.InventoryReceiving{}, err
	}
	return ir, nil
}

func (r *ReceivingGormRepository) List(ctx context.Context, f repo.ReceivingListFilter) ([]model.InventoryReceiving, int64, error) {
	var irs []model.InventoryReceiving
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.InventoryReceiving{})

	if f.SupplierID != nil {
		tx = tx.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.InventoryReceiving{}, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	err := tx.Preload("Items").
		Order("receiving_date desc").Order("id desc").
		Offset(offset).Limit(f.Limit).
		Find(&irs).Error
	if err != nil {
		return []model.InventoryReceiving{}, 0, err
	}

	return irs, total, nil
}

// Draft中のヘッダ更新＋明細差し替え
func (r *ReceivingGormRepository) UpdateDraft(ctx context.Context, ir model.InventoryReceiving) error {
	res := r.db.WithContext(ctx).Model(&model.InventoryReceiving{}).
		Where("id = ?", ir.ID).
		Updates(map[string]interface{}{
			"supplier_id":           ir.SupplierID,
			"purchase_order_id":     ir.PurchaseOrderID,
			"receiving_date":        ir.ReceivingDate,
			"description":           ir.Description,
			"supplier_invoice_no":   ir.SupplierInvoiceNo,
			"supplier_invoice_date": ir.SupplierInvoiceDate,
			"total_amount":          ir.TotalAmount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	// 明細は全削除して入れ直す
	if err := r.db.WithContext(ctx).Where("receiving_id = ?", ir.ID).Delete(&model.InventoryReceivingItem{}).Error; err != nil {
		return err
	}
	for i := range ir.Items {
		ir.Items[i].ID = 0
		ir.Items[i].ReceivingID = ir.ID
	}
	if len(ir.Items) > 0 {
		if err := r.db.WithContext(ctx).Create(&ir.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// 状態と計上者の刻印をまとめて書き込む
func (r *ReceivingGormRepository) SetPosting(ctx context.Context, id int64, status model.ReceivingStatus, postedBy *string, postedDate *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.InventoryReceiving{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"posted_by":   postedBy,
			"posted_date": postedDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
