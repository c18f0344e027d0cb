package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	products repo.ProductRepository
}

func NewProductUsecase(products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{products: products}
}

type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Barcode       string          `json:"barcode" validate:"required,max=64"`
	CategoryID    int64           `json:"category_id"`
	SupplierID    int64           `json:"supplier_id"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockQuantity int64           `json:"stock_quantity"`
	ReorderLevel  int64           `json:"reorder_level"`
	IsActive      *bool           `json:"is_active"`
}

func (u *ProductUsecase) validate(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(in.Barcode) == "" {
		return NewHTTPError(http.StatusBadRequest, "barcode is required")
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.StockQuantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock_quantity")
	}
	if in.ReorderLevel < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid reorder_level")
	}
	return nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := u.validate(in); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		Name:          strings.TrimSpace(in.Name),
		Barcode:       strings.TrimSpace(in.Barcode),
		CategoryID:    in.CategoryID,
		SupplierID:    in.SupplierID,
		CostPrice:     in.CostPrice,
		SalePrice:     in.SalePrice,
		StockQuantity: in.StockQuantity,
		ReorderLevel:  in.ReorderLevel,
		IsActive:      true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return model.Product{}, NewHTTPError(http.StatusConflict, "barcode already exists")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 更新。在庫数はここでは触らない（台帳経由でのみ動く）。
func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.validate(in); err != nil {
		return model.Product{}, err
	}

	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Barcode = strings.TrimSpace(in.Barcode)
	p.CategoryID = in.CategoryID
	p.SupplierID = in.SupplierID
	p.CostPrice = in.CostPrice
	p.SalePrice = in.SalePrice
	p.ReorderLevel = in.ReorderLevel
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return model.Product{}, NewHTTPError(http.StatusConflict, "barcode already exists")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 削除。伝票から参照されている商品は消させない。
func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	referenced, err := u.products.IsReferencedByDocuments(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if referenced {
		return NewHTTPError(http.StatusConflict, "product is referenced by documents")
	}

	if err := u.products.SoftDelete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// レジのスキャン経路。バーコードで1件引く。
func (u *ProductUsecase) GetByBarcode(ctx context.Context, barcode string) (model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "barcode is required")
	}

	p, err := u.products.FindByBarcode(ctx, barcode)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type ProductListInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	ActiveOnly bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, in ProductListInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		CategoryID: in.CategoryID,
		ActiveOnly: in.ActiveOnly,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ProductUsecase) ListLowStock(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.ListLowStock(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type StockAvailability struct {
	ProductID     int64 `json:"product_id"`
	StockQuantity int64 `json:"stock_quantity"`
	Requested     int64 `json:"requested"`
	Available     bool  `json:"available"`
}

// 売上確定前の在庫照会。確定時の減算はあくまで台帳が最終判定する。
func (u *ProductUsecase) CheckStockAvailability(ctx context.Context, productID int64, qty int64) (StockAvailability, error) {
	if productID <= 0 {
		return StockAvailability{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if qty <= 0 {
		return StockAvailability{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return StockAvailability{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return StockAvailability{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return StockAvailability{
		ProductID:     p.ID,
		StockQuantity: p.StockQuantity,
		Requested:     qty,
		Available:     p.IsActive && p.StockQuantity >= qty,
	}, nil
}
