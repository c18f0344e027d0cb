package repository

import "context"

// トランザクション内で使う約束。
// ここから取ったrepoはすべて同じトランザクションに乗っている。
type TxRepos interface {
	Sales() SaleRepository
	Invoices() InvoiceRepository
	Receivings() ReceivingRepository
	PurchaseOrders() PurchaseOrderRepository
	Inventory() InventoryRepository
	Products() ProductRepository
	Sequences() SequenceRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返せば全体がロールバックされ、部分的な効果は残らない。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
