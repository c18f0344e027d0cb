package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
}

func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers}
}

type CustomerInput struct {
	FirstName string     `json:"first_name" validate:"required,max=100"`
	LastName  string     `json:"last_name" validate:"max=100"`
	Birthday  *time.Time `json:"birthday"`
	Phone     string     `json:"phone" validate:"max=30"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Address   string     `json:"address"`
}

func (in CustomerInput) displayName() string {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if last == "" {
		return first
	}
	return first + " " + last
}

func (u *CustomerUsecase) Create(ctx context.Context, in CustomerInput) (model.Customer, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "first_name is required")
	}

	c := model.Customer{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		DisplayName: in.displayName(),
		Birthday:    in.Birthday,
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Address:     in.Address,
		IsActive:    true,
	}

	created, err := u.customers.Create(ctx, c)
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CustomerUsecase) Update(ctx context.Context, id int64, in CustomerInput) (model.Customer, error) {
	if id <= 0 {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "first_name is required")
	}

	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.DisplayName = in.displayName()
	c.Birthday = in.Birthday
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.Address = in.Address

	if err := u.customers.Update(ctx, c); err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// 削除。売上履歴のある顧客は消させない。
func (u *CustomerUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.customers.FindByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	has, err := u.customers.HasSales(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if has {
		return NewHTTPError(http.StatusConflict, "customer has sales history")
	}

	if err := u.customers.SoftDelete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CustomerUsecase) Get(ctx context.Context, id int64) (model.Customer, error) {
	if id <= 0 {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

type CustomerListOutput struct {
	Items []model.Customer `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *CustomerUsecase) List(ctx context.Context, page, limit int, q string) (CustomerListOutput, error) {
	if page < 1 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.customers.List(ctx, page, limit, strings.TrimSpace(q))
	if err != nil {
		return CustomerListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CustomerListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
