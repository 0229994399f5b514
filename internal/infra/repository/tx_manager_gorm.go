package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	invoices          repo.InvoiceRepository
	invoiceItems      repo.InvoiceItemRepository
	additionalCharges repo.AdditionalChargeRepository
	clients           repo.ClientRepository
	clientBranches    repo.ClientBranchRepository
	drivers           repo.DriverRepository
}

func (r *txReposGorm) Invoices() repo.InvoiceRepository                   { return r.invoices }
func (r *txReposGorm) InvoiceItems() repo.InvoiceItemRepository           { return r.invoiceItems }
func (r *txReposGorm) AdditionalCharges() repo.AdditionalChargeRepository { return r.additionalCharges }
func (r *txReposGorm) Clients() repo.ClientRepository                     { return r.clients }
func (r *txReposGorm) ClientBranches() repo.ClientBranchRepository        { return r.clientBranches }
func (r *txReposGorm) Drivers() repo.DriverRepository                     { return r.drivers }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			invoices:          NewInvoiceGormRepository(tx),
			invoiceItems:      NewInvoiceItemGormRepository(tx),
			additionalCharges: NewAdditionalChargeGormRepository(tx),
			clients:           NewClientGormRepository(tx),
			clientBranches:    NewClientBranchGormRepository(tx),
			drivers:           NewDriverGormRepository(tx),
		}
		return fn(r)
	})
}
