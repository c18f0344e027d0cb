package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type SupplierUsecase struct {
	suppliers repo.SupplierRepository
}

func NewSupplierUsecase(suppliers repo.SupplierRepository) *SupplierUsecase {
	return &SupplierUsecase{suppliers: suppliers}
}

type SupplierInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

func (u *SupplierUsecase) Create(ctx context.Context, in SupplierInput) (model.Supplier, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Supplier{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	s := model.Supplier{
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.TrimSpace(in.Email),
		Address:  in.Address,
		IsActive: true,
	}

	created, err := u.suppliers.Create(ctx, s)
	if err != nil {
		return model.Supplier{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *SupplierUsecase) Update(ctx context.Context, id int64, in SupplierInput) (model.Supplier, error) {
	if id <= 0 {
		return model.Supplier{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Supplier{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	s, err := u.suppliers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Supplier{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Supplier{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s.Name = strings.TrimSpace(in.Name)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.TrimSpace(in.Email)
	s.Address = in.Address

	if err := u.suppliers.Update(ctx, s); err != nil {
		return model.Supplier{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// 削除。発注・入庫から参照されている仕入先は消させない。
func (u *SupplierUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.suppliers.FindByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	has, err := u.suppliers.HasDocuments(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if has {
		return NewHTTPError(http.StatusConflict, "supplier is referenced by documents")
	}

	if err := u.suppliers.SoftDelete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *SupplierUsecase) Get(ctx context.Context, id int64) (model.Supplier, error) {
	if id <= 0 {
		return model.Supplier{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s, err := u.suppliers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Supplier{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Supplier{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

type SupplierListOutput struct {
	Items []model.Supplier `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *SupplierUsecase) List(ctx context.Context, page, limit int, q string) (SupplierListOutput, error) {
	if page < 1 {
		return SupplierListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return SupplierListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.suppliers.List(ctx, page, limit, strings.TrimSpace(q))
	if err != nil {
		return SupplierListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return SupplierListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
