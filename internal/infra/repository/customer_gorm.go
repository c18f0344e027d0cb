package repository

import (
	"context"
	"errors"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) List(ctx context.Context, page int, limit int, q string) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Customer{})

	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("display_name ILIKE ? OR phone ILIKE ?", like, like)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Customer{}, 0, err
	}

	offset := (page - 1) * limit
	if err := tx.Order("display_name asc").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return []model.Customer{}, 0, err
	}
	return customers, total, nil
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"display_name": c.DisplayName,
		"birthday":     c.Birthday,
		"phone":        c.Phone,
		"email":        c.Email,
		"address":      c.Address,
		"is_active":    c.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) HasSales(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Sale{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type SupplierGormRepository struct {
	db *gorm.DB
}

func NewSupplierGormRepository(db *gorm.DB) *SupplierGormRepository {
	return &SupplierGormRepository{db: db}
}

func (r *SupplierGormRepository) List(ctx context.Context, page int, limit int, q string) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Supplier{})

	if s := strings.TrimSpace(q); s != "" {
		tx = tx.Where("name ILIKE ?", "%"+s+"%")
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Supplier{}, 0, err
	}

	offset := (page - 1) * limit
	if err := tx.Order("name asc").Offset(offset).Limit(limit).Find(&suppliers).Error; err != nil {
		return []model.Supplier{}, 0, err
	}
	return suppliers, total, nil
}

func (r *SupplierGormRepository) FindByID(ctx context.Context, id int64) (model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Supplier{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Supplier{}, err
	}
	return s, nil
}

func (r *SupplierGormRepository) Create(ctx context.Context, s model.Supplier) (model.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Supplier{}, err
	}
	return s, nil
}

func (r *SupplierGormRepository) Update(ctx context.Context, s model.Supplier) error {
	res := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":      s.Name,
		"phone":     s.Phone,
		"email":     s.Email,
		"address":   s.Address,
		"is_active": s.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Supplier{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierGormRepository) HasDocuments(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.InventoryReceiving{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
