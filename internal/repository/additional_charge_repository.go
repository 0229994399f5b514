package repository

import (
	"context"

	"app/internal/domain/model"
)

type AdditionalChargeRepository interface {
	CreateBulk(ctx context.Context, charges []model.AdditionalCharge) error
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.AdditionalCharge, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID string) error
}
