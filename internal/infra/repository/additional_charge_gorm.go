package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type AdditionalChargeGormRepository struct {
	db *gorm.DB
}

func NewAdditionalChargeGormRepository(db *gorm.DB) *AdditionalChargeGormRepository {
	return &AdditionalChargeGormRepository{db: db}
}

func (r *AdditionalChargeGormRepository) CreateBulk(ctx context.Context, charges []model.AdditionalCharge) error {
	if len(charges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&charges).Error
}

func (r *AdditionalChargeGormRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.AdditionalCharge, error) {
	var charges []model.AdditionalCharge
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&charges).Error
	if err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *AdditionalChargeGormRepository) DeleteByInvoiceID(ctx context.Context, invoiceID string) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&model.AdditionalCharge{}).Error
}
