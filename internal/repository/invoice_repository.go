package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 請求書一覧の絞り込み条件。
type InvoiceListFilter struct {
	Status   string
	ClientID *string
	DriverID *string

	//invoice_date / invoice_due / created_at のどれで期間を切るか
	DateField string
	From      *time.Time
	To        *time.Time

	//請求書番号・発注番号の部分一致
	Q string

	Page  int
	Limit int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice model.Invoice) error
	Update(ctx context.Context, invoice model.Invoice) error
	UpdateStatus(ctx context.Context, invoiceID string, status model.InvoiceStatus) error
	Delete(ctx context.Context, invoiceID string) error

	FindByID(ctx context.Context, invoiceID string) (model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)

	//クライアントの発行済み件数（請求書番号の連番用）
	CountByClientID(ctx context.Context, clientID string) (int64, error)

	//ID→請求書番号の一括解決（ログ表示のbackfill用）
	FindNumbersByIDs(ctx context.Context, invoiceIDs []string) (map[string]string, error)
}
