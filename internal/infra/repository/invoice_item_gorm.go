package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type InvoiceItemGormRepository struct {
	db *gorm.DB
}

func NewInvoiceItemGormRepository(db *gorm.DB) *InvoiceItemGormRepository {
	return &InvoiceItemGormRepository{db: db}
}

func (r *InvoiceItemGormRepository) CreateBulk(ctx context.Context, items []model.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *InvoiceItemGormRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.InvoiceItem, error) {
	var items []model.InvoiceItem
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InvoiceItemGormRepository) DeleteByInvoiceID(ctx context.Context, invoiceID string) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&model.InvoiceItem{}).Error
}
