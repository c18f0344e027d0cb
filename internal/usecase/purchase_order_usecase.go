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

type PurchaseOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.PurchaseOrderRepository
	suppliers repo.SupplierRepository
	clock     Clock
}

func NewPurchaseOrderUsecase(
	tx repo.TransactionManager,
	orders repo.PurchaseOrderRepository,
	suppliers repo.SupplierRepository,
	clock Clock,
) *PurchaseOrderUsecase {
	return &PurchaseOrderUsecase{tx: tx, orders: orders, suppliers: suppliers, clock: clock}
}

type PurchaseItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreatePurchaseOrderInput struct {
	SupplierID   int64               `json:"supplier_id"`
	OrderDate    *time.Time          `json:"order_date"`
	ExpectedDate *time.Time          `json:"expected_date"`
	Description  string              `json:"description"`
	Remarks      string              `json:"remarks"`
	Items        []PurchaseItemInput `json:"items"`
}

func (u *PurchaseOrderUsecase) validateInput(supplierID int64, items []PurchaseItemInput) error {
	if supplierID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid supplier_id")
	}
	if len(items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "empty items")
	}
	for _, it := range items {
		if it.ProductID <= 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if it.Quantity <= 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if it.UnitPrice.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "invalid unit_price")
		}
	}
	return nil
}

// 発注をDraftで作成する
func (u *PurchaseOrderUsecase) Create(ctx context.Context, actingUserID string, in CreatePurchaseOrderInput) (model.PurchaseOrder, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validateInput(in.SupplierID, in.Items); err != nil {
		return model.PurchaseOrder{}, err
	}

	if _, err := u.suppliers.FindByID(ctx, in.SupplierID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.PurchaseOrder{}, NewHTTPError(http.StatusNotFound, "supplier not found")
		}
		return model.PurchaseOrder{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	var out model.PurchaseOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		seq, err := r.Sequences().Next(ctx, model.DocumentKindPurchaseOrder, now)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		po := model.PurchaseOrder{
			PONumber:        model.FormatDocumentNumber(model.DocumentKindPurchaseOrder, now, seq),
			SupplierID:      in.SupplierID,
			OrderDate:       orderDate,
			TransactionDate: now,
			ExpectedDate:    in.ExpectedDate,
			Description:     in.Description,
			Remarks:         in.Remarks,
			Status:          model.PurchaseOrderStatusDraft,
		}
		for _, it := range in.Items {
			po.Items = append(po.Items, model.PurchaseItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		po.ComputeTotals()

		created, err := r.PurchaseOrders().Create(ctx, po)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = created
		return nil
	})

	if err != nil {
		return model.PurchaseOrder{}, err
	}
	return out, nil
}

// Draft中の発注を編集する。明細は丸ごと差し替え。
func (u *PurchaseOrderUsecase) UpdateDraft(ctx context.Context, actingUserID string, id int64, in CreatePurchaseOrderInput) (model.PurchaseOrder, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.validateInput(in.SupplierID, in.Items); err != nil {
		return model.PurchaseOrder{}, err
	}

	var out model.PurchaseOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		po, err := r.PurchaseOrders().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if po.Status != model.PurchaseOrderStatusDraft {
			return NewHTTPError(http.StatusConflict, "only draft purchase orders can be edited")
		}

		po.SupplierID = in.SupplierID
		if in.OrderDate != nil {
			po.OrderDate = *in.OrderDate
		}
		po.ExpectedDate = in.ExpectedDate
		po.Description = in.Description
		po.Remarks = in.Remarks
		po.Items = po.Items[:0]
		for _, it := range in.Items {
			po.Items = append(po.Items, model.PurchaseItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		po.ComputeTotals()

		if err := r.PurchaseOrders().UpdateDraft(ctx, po); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = po
		return nil
	})

	if err != nil {
		return model.PurchaseOrder{}, err
	}
	return out, nil
}

// Draft -> Active。承認者と承認日時を刻印する。
func (u *PurchaseOrderUsecase) Activate(ctx context.Context, actingUserID string, id int64) (model.PurchaseOrder, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	now := u.clock.Now()
	var out model.PurchaseOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		po, err := r.PurchaseOrders().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		next, err := po.Status.Transition(model.PurchaseOrderStatusActive)
		if err != nil {
			return transitionError(err)
		}

		if err := r.PurchaseOrders().UpdateStatus(ctx, po.ID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.PurchaseOrders().StampApproval(ctx, po.ID, actingUserID, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		po.Status = next
		po.ApprovedBy = &actingUserID
		po.ApprovedDate = &now
		out = po
		return nil
	})

	if err != nil {
		return model.PurchaseOrder{}, err
	}
	return out, nil
}

// Draft/Active -> Cancelled（終端）。発注は在庫を動かさないので副作用なし。
func (u *PurchaseOrderUsecase) Cancel(ctx context.Context, actingUserID string, id int64) error {
	if strings.TrimSpace(actingUserID) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		po, err := r.PurchaseOrders().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := po.Status.Transition(model.PurchaseOrderStatusCancelled); err != nil {
			return transitionError(err)
		}

		if err := r.PurchaseOrders().MarkCancelled(ctx, po.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// Active -> Completed。通常は全量入荷で自動遷移するが、
// 打ち切り完了もここから手動で行える。
func (u *PurchaseOrderUsecase) Complete(ctx context.Context, actingUserID string, id int64) (model.PurchaseOrder, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.PurchaseOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		po, err := r.PurchaseOrders().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		next, err := po.Status.Transition(model.PurchaseOrderStatusCompleted)
		if err != nil {
			return transitionError(err)
		}

		if err := r.PurchaseOrders().UpdateStatus(ctx, po.ID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		po.Status = next
		out = po
		return nil
	})

	if err != nil {
		return model.PurchaseOrder{}, err
	}
	return out, nil
}

func (u *PurchaseOrderUsecase) Get(ctx context.Context, id int64) (model.PurchaseOrder, error) {
	if id <= 0 {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	po, err := u.orders.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.PurchaseOrder{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return po, nil
}

type PurchaseOrderListInput struct {
	Page       int
	Limit      int
	SupplierID *int64
	Status     string
}

type PurchaseOrderListOutput struct {
	Items []model.PurchaseOrder `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

func (u *PurchaseOrderUsecase) List(ctx context.Context, in PurchaseOrderListInput) (PurchaseOrderListOutput, error) {
	if in.Page < 1 {
		return PurchaseOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return PurchaseOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	f := repo.PurchaseOrderListFilter{Page: in.Page, Limit: in.Limit, SupplierID: in.SupplierID}
	if s := strings.TrimSpace(in.Status); s != "" {
		status := model.PurchaseOrderStatus(s)
		switch status {
		case model.PurchaseOrderStatusDraft, model.PurchaseOrderStatusActive,
			model.PurchaseOrderStatusCompleted, model.PurchaseOrderStatusCancelled:
			f.Status = &status
		default:
			return PurchaseOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	pos, total, err := u.orders.List(ctx, f)
	if err != nil {
		return PurchaseOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return PurchaseOrderListOutput{Items: pos, Total: total, Page: in.Page, Limit: in.Limit}, nil
}
