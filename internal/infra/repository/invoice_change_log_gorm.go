package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InvoiceChangeLogGormRepository struct {
	db *gorm.DB
}

func NewInvoiceChangeLogGormRepository(db *gorm.DB) *InvoiceChangeLogGormRepository {
	return &InvoiceChangeLogGormRepository{db: db}
}

func (r *InvoiceChangeLogGormRepository) Create(ctx context.Context, log model.InvoiceChangeLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *InvoiceChangeLogGormRepository) List(ctx context.Context, filter repo.LogListFilter) ([]model.InvoiceChangeLog, error) {
	q := r.db.WithContext(ctx).Model(&model.InvoiceChangeLog{}).Preload("Invoice")

	if filter.ActionType != "" {
		q = q.Where("change_type = ?", filter.ActionType)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	//新しい順
	q = q.Order("created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	q = q.Limit(limit)

	var logs []model.InvoiceChangeLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *InvoiceChangeLogGormRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.InvoiceChangeLog, error) {
	var logs []model.InvoiceChangeLog
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

type SystemLogGormRepository struct {
	db *gorm.DB
}

func NewSystemLogGormRepository(db *gorm.DB) *SystemLogGormRepository {
	return &SystemLogGormRepository{db: db}
}

func (r *SystemLogGormRepository) Create(ctx context.Context, log model.SystemLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *SystemLogGormRepository) List(ctx context.Context, filter repo.LogListFilter) ([]model.SystemLog, error) {
	q := r.db.WithContext(ctx).Model(&model.SystemLog{})

	if filter.ActionType != "" {
		q = q.Where("action = ?", filter.ActionType)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	//新しい順
	q = q.Order("created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	q = q.Limit(limit)

	var logs []model.SystemLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
