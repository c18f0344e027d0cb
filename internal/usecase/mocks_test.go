package usecase_test

import (
	"context"
	"sync"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByBarcode(ctx context.Context, barcode string) (model.Product, error) {
	args := m.Called(ctx, barcode)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListLowStock(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) IsReferencedByDocuments(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) List(ctx context.Context, page int, limit int, q string) ([]model.Customer, int64, error) {
	args := m.Called(ctx, page, limit, q)
	items, _ := args.Get(0).([]model.Customer)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Customer)
	return created, args.Error(1)
}

func (m *CustomerRepoMock) Update(ctx context.Context, c model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CustomerRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CustomerRepoMock) HasSales(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type SupplierRepoMock struct{ mock.Mock }

func (m *SupplierRepoMock) List(ctx context.Context, page int, limit int, q string) ([]model.Supplier, int64, error) {
	args := m.Called(ctx, page, limit, q)
	items, _ := args.Get(0).([]model.Supplier)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *SupplierRepoMock) FindByID(ctx context.Context, id int64) (model.Supplier, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Supplier)
	return s, args.Error(1)
}

func (m *SupplierRepoMock) Create(ctx context.Context, s model.Supplier) (model.Supplier, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Supplier)
	return created, args.Error(1)
}

func (m *SupplierRepoMock) Update(ctx context.Context, s model.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SupplierRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SupplierRepoMock) HasDocuments(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type SaleRepoMock struct{ mock.Mock }

func (m *SaleRepoMock) Create(ctx context.Context, s model.Sale) (model.Sale, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Sale)
	return created, args.Error(1)
}

func (m *SaleRepoMock) FindByID(ctx context.Context, id int64) (model.Sale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Sale)
	return s, args.Error(1)
}

func (m *SaleRepoMock) List(ctx context.Context, f repo.SaleListFilter) ([]model.Sale, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Sale)
	return items, args.Get(1).(int64), args.Error(2)
}

type InvoiceRepoMock struct{ mock.Mock }

func (m *InvoiceRepoMock) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	args := m.Called(ctx, inv)
	created, _ := args.Get(0).(model.Invoice)
	return created, args.Error(1)
}

func (m *InvoiceRepoMock) FindBySaleID(ctx context.Context, saleID int64) (model.Invoice, error) {
	args := m.Called(ctx, saleID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

type ReceivingRepoMock struct{ mock.Mock }

func (m *ReceivingRepoMock) Create(ctx context.Context, ir model.InventoryReceiving) (model.InventoryReceiving, error) {
	args := m.Called(ctx, ir)
	created, _ := args.Get(0).(model.InventoryReceiving)
	return created, args.Error(1)
}

func (m *ReceivingRepoMock) FindByID(ctx context.Context, id int64) (model.InventoryReceiving, error) {
	args := m.Called(ctx, id)
	ir, _ := args.Get(0).(model.InventoryReceiving)
	return ir, args.Error(1)
}

func (m *ReceivingRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.InventoryReceiving, error) {
	args := m.Called(ctx, id)
	ir, _ := args.Get(0).(model.InventoryReceiving)
	return ir, args.Error(1)
}

func (m *ReceivingRepoMock) List(ctx context.Context, f repo.ReceivingListFilter) ([]model.InventoryReceiving, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.InventoryReceiving)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ReceivingRepoMock) UpdateDraft(ctx context.Context, ir model.InventoryReceiving) error {
	args := m.Called(ctx, ir)
	return args.Error(0)
}

func (m *ReceivingRepoMock) SetPosting(ctx context.Context, id int64, status model.ReceivingStatus, postedBy *string, postedDate *time.Time) error {
	args := m.Called(ctx, id, status, postedBy, postedDate)
	return args.Error(0)
}

type PurchaseOrderRepoMock struct{ mock.Mock }

func (m *PurchaseOrderRepoMock) Create(ctx context.Context, po model.PurchaseOrder) (model.PurchaseOrder, error) {
	args := m.Called(ctx, po)
	created, _ := args.Get(0).(model.PurchaseOrder)
	return created, args.Error(1)
}

func (m *PurchaseOrderRepoMock) FindByID(ctx context.Context, id int64) (model.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	po, _ := args.Get(0).(model.PurchaseOrder)
	return po, args.Error(1)
}

func (m *PurchaseOrderRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	po, _ := args.Get(0).(model.PurchaseOrder)
	return po, args.Error(1)
}

func (m *PurchaseOrderRepoMock) List(ctx context.Context, f repo.PurchaseOrderListFilter) ([]model.PurchaseOrder, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.PurchaseOrder)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *PurchaseOrderRepoMock) UpdateDraft(ctx context.Context, po model.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *PurchaseOrderRepoMock) UpdateStatus(ctx context.Context, id int64, status model.PurchaseOrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *PurchaseOrderRepoMock) StampApproval(ctx context.Context, id int64, approvedBy string, approvedDate time.Time) error {
	args := m.Called(ctx, id, approvedBy, approvedDate)
	return args.Error(0)
}

func (m *PurchaseOrderRepoMock) MarkCancelled(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PurchaseOrderRepoMock) AddReceivedQuantity(ctx context.Context, purchaseOrderID int64, productID int64, qty int64) error {
	args := m.Called(ctx, purchaseOrderID, productID, qty)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) AdjustStock(ctx context.Context, productID int64, delta int64) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfSufficient(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) RecordMovement(ctx context.Context, mv model.StockMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

// =====================
// 採番のインメモリ実装。実装と同じ「種別×日付で単調増加」を守る。
// =====================

type fakeSequenceRepo struct {
	mu   sync.Mutex
	last map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{last: map[string]int64{}}
}

func (f *fakeSequenceRepo) Next(_ context.Context, kind model.DocumentKind, day time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := string(kind) + day.Format("20060102")
	f.last[key]++
	return f.last[key], nil
}

// =====================
// TxManagerのフェイク。fnをそのまま実行してエラーを返す。
// （ロールバック検証は「fnのエラーが呼び出し元へ伝播すること」で見る）
// =====================

type fakeTxRepos struct {
	sales          repo.SaleRepository
	invoices       repo.InvoiceRepository
	receivings     repo.ReceivingRepository
	purchaseOrders repo.PurchaseOrderRepository
	inventory      repo.InventoryRepository
	products       repo.ProductRepository
	sequences      repo.SequenceRepository
}

func (r *fakeTxRepos) Sales() repo.SaleRepository                   { return r.sales }
func (r *fakeTxRepos) Invoices() repo.InvoiceRepository             { return r.invoices }
func (r *fakeTxRepos) Receivings() repo.ReceivingRepository         { return r.receivings }
func (r *fakeTxRepos) PurchaseOrders() repo.PurchaseOrderRepository { return r.purchaseOrders }
func (r *fakeTxRepos) Inventory() repo.InventoryRepository          { return r.inventory }
func (r *fakeTxRepos) Products() repo.ProductRepository             { return r.products }
func (r *fakeTxRepos) Sequences() repo.SequenceRepository           { return r.sequences }

type fakeTxManager struct {
	repos *fakeTxRepos
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// 固定時刻のClock
// =====================

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}
