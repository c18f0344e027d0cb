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

type ReceivingUsecase struct {
	tx         repo.TransactionManager
	receivings repo.ReceivingRepository
	suppliers  repo.SupplierRepository
	clock      Clock
}

func NewReceivingUsecase(
	tx repo.TransactionManager,
	receivings repo.ReceivingRepository,
	suppliers repo.SupplierRepository,
	clock Clock,
) *ReceivingUsecase {
	return &ReceivingUsecase{tx: tx, receivings: receivings, suppliers: suppliers, clock: clock}
}

type ReceivingItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

type CreateReceivingInput struct {
	SupplierID          int64                `json:"supplier_id"`
	PurchaseOrderID     *int64               `json:"purchase_order_id"`
	ReceivingDate       *time.Time           `json:"receiving_date"`
	Description         string               `json:"description"`
	SupplierInvoiceNo   string               `json:"supplier_invoice_no"`
	SupplierInvoiceDate *time.Time           `json:"supplier_invoice_date"`
	Items               []ReceivingItemInput `json:"items"`
}

func (u *ReceivingUsecase) validateInput(supplierID int64, items []ReceivingItemInput) error {
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
		if it.CostPrice.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "invalid cost_price")
		}
	}
	return nil
}

// 入庫伝票をDraftで作成する。在庫はまだ動かない。
func (u *ReceivingUsecase) Create(ctx context.Context, actingUserID string, in CreateReceivingInput) (model.InventoryReceiving, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validateInput(in.SupplierID, in.Items); err != nil {
		return model.InventoryReceiving{}, err
	}

	if _, err := u.suppliers.FindByID(ctx, in.SupplierID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.InventoryReceiving{}, NewHTTPError(http.StatusNotFound, "supplier not found")
		}
		return model.InventoryReceiving{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	receivingDate := now
	if in.ReceivingDate != nil {
		receivingDate = *in.ReceivingDate
	}

	var out model.InventoryReceiving

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// リンク先の発注が実在することだけ確認する（状態は問わない）
		if in.PurchaseOrderID != nil {
			if _, err := r.PurchaseOrders().FindByID(ctx, *in.PurchaseOrderID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "purchase order not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		seq, err := r.Sequences().Next(ctx, model.DocumentKindReceiving, now)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		ir := model.InventoryReceiving{
			IRNumber:            model.FormatDocumentNumber(model.DocumentKindReceiving, now, seq),
			SupplierID:          in.SupplierID,
			PurchaseOrderID:     in.PurchaseOrderID,
			ReceivingDate:       receivingDate,
			Description:         in.Description,
			SupplierInvoiceNo:   in.SupplierInvoiceNo,
			SupplierInvoiceDate: in.SupplierInvoiceDate,
			Status:              model.ReceivingStatusDraft,
		}
		for _, it := range in.Items {
			ir.Items = append(ir.Items, model.InventoryReceivingItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				CostPrice: it.CostPrice,
			})
		}
		ir.ComputeTotals()

		created, err := r.Receivings().Create(ctx, ir)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = created
		return nil
	})

	if err != nil {
		return model.InventoryReceiving{}, err
	}
	return out, nil
}

// Draft中の入庫伝票を編集する
func (u *ReceivingUsecase) UpdateDraft(ctx context.Context, actingUserID string, id int64, in CreateReceivingInput) (model.InventoryReceiving, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.validateInput(in.SupplierID, in.Items); err != nil {
		return model.InventoryReceiving{}, err
	}

	var out model.InventoryReceiving

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ir, err := r.Receivings().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 編集できるのはDraftだけ
		if ir.Status != model.ReceivingStatusDraft {
			return NewHTTPError(http.StatusConflict, "only draft receivings can be edited")
		}

		ir.SupplierID = in.SupplierID
		ir.PurchaseOrderID = in.PurchaseOrderID
		if in.ReceivingDate != nil {
			ir.ReceivingDate = *in.ReceivingDate
		}
		ir.Description = in.Description
		ir.SupplierInvoiceNo = in.SupplierInvoiceNo
		ir.SupplierInvoiceDate = in.SupplierInvoiceDate
		ir.Items = ir.Items[:0]
		for _, it := range in.Items {
			ir.Items = append(ir.Items, model.InventoryReceivingItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				CostPrice: it.CostPrice,
			})
		}
		ir.ComputeTotals()

		if err := r.Receivings().UpdateDraft(ctx, ir); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = ir
		return nil
	})

	if err != nil {
		return model.InventoryReceiving{}, err
	}
	return out, nil
}

// Draft -> Active。在庫を加算し、リンクされた発注の入荷数量を進め、
// 全量入荷した発注をCompletedへ倒す。全部1トランザクション。
func (u *ReceivingUsecase) Activate(ctx context.Context, actingUserID string, id int64) (model.InventoryReceiving, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	now := u.clock.Now()
	var out model.InventoryReceiving

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ir, err := r.Receivings().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		next, err := ir.Status.Transition(model.ReceivingStatusActive)
		if err != nil {
			return transitionError(err)
		}

		if err := r.Receivings().SetPosting(ctx, ir.ID, next, &actingUserID, &now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 在庫加算＋履歴
		for _, it := range ir.Items {
			if err := r.Inventory().AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "product not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Inventory().RecordMovement(ctx, model.StockMovement{
				ProductID:      it.ProductID,
				Delta:          it.Quantity,
				DocumentKind:   model.DocumentKindReceiving,
				DocumentNumber: ir.IRNumber,
				ActorUserID:    actingUserID,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		// リンクされた発注の入荷数量を進める
		if ir.PurchaseOrderID != nil {
			if err := u.applyToPurchaseOrder(ctx, r, *ir.PurchaseOrderID, ir.Items); err != nil {
				return err
			}
		}

		ir.Status = next
		ir.PostedBy = &actingUserID
		ir.PostedDate = &now
		out = ir
		return nil
	})

	if err != nil {
		return model.InventoryReceiving{}, err
	}
	return out, nil
}

// 発注側の副作用。入荷数量を加算し、全明細が入荷済みになったらCompletedへ。
func (u *ReceivingUsecase) applyToPurchaseOrder(ctx context.Context, r repo.TxRepos, poID int64, items []model.InventoryReceivingItem) error {
	po, err := r.PurchaseOrders().FindByIDForUpdate(ctx, poID)
	if errors.Is(err, repo.ErrNotFound) {
		// リンク先が消えていても入庫自体は成立させる（元仕様どおり）
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, it := range items {
		if err := r.PurchaseOrders().AddReceivedQuantity(ctx, po.ID, it.ProductID, it.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	// 加算後の明細で全量入荷を判定する
	updated, err := r.PurchaseOrders().FindByIDForUpdate(ctx, po.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if updated.FullyReceived() && updated.Status.CanTransition(model.PurchaseOrderStatusCompleted) {
		if err := r.PurchaseOrders().UpdateStatus(ctx, po.ID, model.PurchaseOrderStatusCompleted); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	return nil
}

// Active -> Draft。在庫を元に戻し、計上者の刻印を消す。
// 発注側の入荷数量と完了は戻さない（元仕様を保存。DESIGN.md参照）。
func (u *ReceivingUsecase) Deactivate(ctx context.Context, actingUserID string, id int64) (model.InventoryReceiving, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.InventoryReceiving

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ir, err := r.Receivings().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		next, err := ir.Status.Transition(model.ReceivingStatusDraft)
		if err != nil {
			return transitionError(err)
		}

		// 在庫の逆仕訳
		for _, it := range ir.Items {
			if err := r.Inventory().AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "product not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Inventory().RecordMovement(ctx, model.StockMovement{
				ProductID:      it.ProductID,
				Delta:          -it.Quantity,
				DocumentKind:   model.DocumentKindReceiving,
				DocumentNumber: ir.IRNumber,
				ActorUserID:    actingUserID,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Receivings().SetPosting(ctx, ir.ID, next, nil, nil); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		ir.Status = next
		ir.PostedBy = nil
		ir.PostedDate = nil
		out = ir
		return nil
	})

	if err != nil {
		return model.InventoryReceiving{}, err
	}
	return out, nil
}

// Draft -> Cancelled（終端）。在庫は一度も動いていないので副作用なし。
func (u *ReceivingUsecase) Cancel(ctx context.Context, actingUserID string, id int64) error {
	if strings.TrimSpace(actingUserID) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ir, err := r.Receivings().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		next, err := ir.Status.Transition(model.ReceivingStatusCancelled)
		if err != nil {
			return transitionError(err)
		}

		if err := r.Receivings().SetPosting(ctx, ir.ID, next, nil, nil); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *ReceivingUsecase) Get(ctx context.Context, id int64) (model.InventoryReceiving, error) {
	if id <= 0 {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ir, err := u.receivings.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.InventoryReceiving{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ir, nil
}

type ReceivingListInput struct {
	Page       int
	Limit      int
	SupplierID *int64
	Status     string
}

type ReceivingListOutput struct {
	Items []model.InventoryReceiving `json:"items"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

func (u *ReceivingUsecase) List(ctx context.Context, in ReceivingListInput) (ReceivingListOutput, error) {
	if in.Page < 1 {
		return ReceivingListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ReceivingListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	f := repo.ReceivingListFilter{Page: in.Page, Limit: in.Limit, SupplierID: in.SupplierID}
	if s := strings.TrimSpace(in.Status); s != "" {
		status := model.ReceivingStatus(s)
		switch status {
		case model.ReceivingStatusDraft, model.ReceivingStatusActive, model.ReceivingStatusCancelled:
			f.Status = &status
		default:
			return ReceivingListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	irs, total, err := u.receivings.List(ctx, f)
	if err != nil {
		return ReceivingListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ReceivingListOutput{Items: irs, Total: total, Page: in.Page, Limit: in.Limit}, nil
}
