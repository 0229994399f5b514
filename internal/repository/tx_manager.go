package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Invoices() InvoiceRepository
	InvoiceItems() InvoiceItemRepository
	AdditionalCharges() AdditionalChargeRepository
	Clients() ClientRepository
	ClientBranches() ClientBranchRepository
	Drivers() DriverRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
