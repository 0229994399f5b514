package repository

import (
	"context"

	"app/internal/domain/model"
)

type InvoiceItemRepository interface {
	CreateBulk(ctx context.Context, items []model.InvoiceItem) error
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.InvoiceItem, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID string) error
}
