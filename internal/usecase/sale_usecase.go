package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
)

type SaleUsecase struct {
	tx        repo.TransactionManager
	sales     repo.SaleRepository
	customers repo.CustomerRepository
	clock     Clock
}

func NewSaleUsecase(
	tx repo.TransactionManager,
	sales repo.SaleRepository,
	customers repo.CustomerRepository,
	clock Clock,
) *SaleUsecase {
	return &SaleUsecase{tx: tx, sales: sales, customers: customers, clock: clock}
}

type SaleItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type CreateSaleInput struct {
	CustomerID         int64           `json:"customer_id"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	PaymentMode        string          `json:"payment_mode"`
	Remarks            string          `json:"remarks"`
	Items              []SaleItemInput `json:"items"`
}

// 売上作成。採番・合計計算・明細INSERT・請求書INSERT・在庫減算を
// 1トランザクションで行う。どれか1つでも失敗すれば全部ロールバック。
func (u *SaleUsecase) CreateSale(ctx context.Context, actingUserID string, in CreateSaleInput) (model.Sale, error) {
	// ローカル検証はトランザクションを開く前に終わらせる
	if strings.TrimSpace(actingUserID) == "" {
		return model.Sale{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.CustomerID <= 0 {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid customer_id")
	}
	if len(in.Items) == 0 {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "empty items")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if it.Quantity <= 0 {
			return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if it.UnitPrice.IsNegative() {
			return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid unit_price")
		}
		if it.Discount.IsNegative() {
			return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid discount")
		}
	}
	mode := model.PaymentMode(strings.TrimSpace(in.PaymentMode))
	if mode == "" {
		mode = model.PaymentModeCash
	}
	if !mode.Valid() {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid payment_mode")
	}
	if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid discount_percentage")
	}
	if in.DiscountAmount.IsNegative() {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid discount_amount")
	}

	// 顧客の存在チェック
	if _, err := u.customers.FindByID(ctx, in.CustomerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Sale{}, NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return model.Sale{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	var out model.Sale

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 採番はヘッダINSERTと同じトランザクションの中で行う
		seq, err := r.Sequences().Next(ctx, model.DocumentKindSale, now)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		invoiceNo := model.FormatDocumentNumber(model.DocumentKindSale, now, seq)

		sale := model.Sale{
			CustomerID:         in.CustomerID,
			UserID:             actingUserID,
			SaleDate:           now,
			DiscountPercentage: in.DiscountPercentage,
			DiscountAmount:     in.DiscountAmount,
			AmountPaid:         in.AmountPaid,
			PaymentMode:        mode,
			InvoiceNumber:      invoiceNo,
			Remarks:            in.Remarks,
		}
		for _, it := range in.Items {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Discount:  it.Discount,
			})
		}
		sale.ComputeTotals()

		if sale.DiscountAmount.GreaterThan(sale.SubTotal) {
			return NewHTTPError(http.StatusBadRequest, "discount exceeds subtotal")
		}

		created, err := r.Sales().Create(ctx, sale)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 請求書は売上と同時に1:1で作る
		if _, err := r.Invoices().Create(ctx, model.Invoice{
			InvoiceNumber: invoiceNo,
			SaleID:        created.ID,
			InvoiceDate:   now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 在庫減算。足りなければ売らない（売り越し拒否）。
		for _, it := range created.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "product inactive")
			}

			ok, err := r.Inventory().DecreaseStockIfSufficient(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient stock")
			}

			if err := r.Inventory().RecordMovement(ctx, model.StockMovement{
				ProductID:      it.ProductID,
				Delta:          -it.Quantity,
				DocumentKind:   model.DocumentKindSale,
				DocumentNumber: invoiceNo,
				ActorUserID:    actingUserID,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = created
		return nil
	})

	if err != nil {
		return model.Sale{}, err
	}
	return out, nil
}

func (u *SaleUsecase) GetSale(ctx context.Context, id int64) (model.Sale, error) {
	if id <= 0 {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s, err := u.sales.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Sale{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Sale{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

type SaleListInput struct {
	Page   int
	Limit  int
	From   *time.Time
	To     *time.Time
	UserID string
}

type SaleListOutput struct {
	Items []model.Sale `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *SaleUsecase) ListSales(ctx context.Context, in SaleListInput) (SaleListOutput, error) {
	if in.Page < 1 {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	sales, total, err := u.sales.List(ctx, repo.SaleListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		From:   in.From,
		To:     in.To,
		UserID: in.UserID,
	})
	if err != nil {
		return SaleListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SaleListOutput{Items: sales, Total: total, Page: in.Page, Limit: in.Limit}, nil
}
