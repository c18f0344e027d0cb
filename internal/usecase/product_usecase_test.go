package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validProductInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:      "Frame X",
		Barcode:   "4900000000001",
		CostPrice: decimal.NewFromInt(800),
		SalePrice: decimal.NewFromInt(1500),
	}
}

func TestProductCreate_Success(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo)

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Frame X" && p.IsActive
	})).Return(model.Product{ID: 5, Name: "Frame X"}, nil)

	out, err := uc.Create(context.Background(), validProductInput())
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
}

func TestProductCreate_DuplicateBarcode(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo)

	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrConflict)

	_, err := uc.Create(context.Background(), validProductInput())
	assertHTTPError(t, err, http.StatusConflict)
}

func TestProductCreate_NegativePrice(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock))

	in := validProductInput()
	in.SalePrice = decimal.NewFromInt(-1)
	_, err := uc.Create(context.Background(), in)
	assertHTTPError(t, err, http.StatusBadRequest)
}

func TestProductDelete_ReferencedRejected(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo)

	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5}, nil)
	pRepo.On("IsReferencedByDocuments", mock.Anything, int64(5)).Return(true, nil)

	err := uc.Delete(context.Background(), 5)
	assertHTTPError(t, err, http.StatusConflict)

	pRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestProductDelete_Success(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo)

	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5}, nil)
	pRepo.On("IsReferencedByDocuments", mock.Anything, int64(5)).Return(false, nil)
	pRepo.On("SoftDelete", mock.Anything, int64(5)).Return(nil)

	require.NoError(t, uc.Delete(context.Background(), 5))
	pRepo.AssertExpectations(t)
}

func TestProductGetByBarcode_NotFound(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo)

	pRepo.On("FindByBarcode", mock.Anything, "404").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetByBarcode(context.Background(), "404")
	assertHTTPError(t, err, http.StatusNotFound)
}

func TestCheckStockAvailability(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo)

	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, IsActive: true, StockQuantity: 3}, nil)

	out, err := uc.CheckStockAvailability(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.True(t, out.Available)

	out, err = uc.CheckStockAvailability(context.Background(), 5, 4)
	require.NoError(t, err)
	assert.False(t, out.Available)
}

func TestCustomerDelete_WithSalesRejected(t *testing.T) {
	cRepo := new(CustomerRepoMock)
	uc := usecase.NewCustomerUsecase(cRepo)

	cRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Customer{ID: 7}, nil)
	cRepo.On("HasSales", mock.Anything, int64(7)).Return(true, nil)

	err := uc.Delete(context.Background(), 7)
	assertHTTPError(t, err, http.StatusConflict)
	cRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestSupplierDelete_ReferencedRejected(t *testing.T) {
	sRepo := new(SupplierRepoMock)
	uc := usecase.NewSupplierUsecase(sRepo)

	sRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Supplier{ID: 3}, nil)
	sRepo.On("HasDocuments", mock.Anything, int64(3)).Return(true, nil)

	err := uc.Delete(context.Background(), 3)
	assertHTTPError(t, err, http.StatusConflict)
	sRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestCustomerCreate_BuildsDisplayName(t *testing.T) {
	cRepo := new(CustomerRepoMock)
	uc := usecase.NewCustomerUsecase(cRepo)

	cRepo.On("Create", mock.Anything, mock.MatchedBy(func(c model.Customer) bool {
		return c.DisplayName == "Taro Yamada"
	})).Return(model.Customer{ID: 1, DisplayName: "Taro Yamada"}, nil)

	_, err := uc.Create(context.Background(), usecase.CustomerInput{FirstName: "Taro", LastName: "Yamada"})
	require.NoError(t, err)
	cRepo.AssertExpectations(t)
}
