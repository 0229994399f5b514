package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) Create(ctx context.Context, invoice model.Invoice) error {
	return r.db.WithContext(ctx).Create(&invoice).Error
}

func (r *InvoiceGormRepository) Update(ctx context.Context, invoice model.Invoice) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"invoice_num":    invoice.InvoiceNum,
			"po_num":         invoice.PONum,
			"invoice_date":   invoice.InvoiceDate,
			"invoice_due":    invoice.InvoiceDue,
			"client_id":      invoice.ClientID,
			"branch_id":      invoice.BranchID,
			"driver_id":      invoice.DriverID,
			"invoice_notes":  invoice.InvoiceNotes,
			"total":          invoice.Total,
			"invoice_status": invoice.InvoiceStatus,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InvoiceGormRepository) UpdateStatus(ctx context.Context, invoiceID string, status model.InvoiceStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", invoiceID).
		Update("invoice_status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InvoiceGormRepository) Delete(ctx context.Context, invoiceID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", invoiceID).Delete(&model.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InvoiceGormRepository) FindByID(ctx context.Context, invoiceID string) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("id = ?", invoiceID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Invoice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) List(ctx context.Context, filter repo.InvoiceListFilter) ([]model.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})

	if filter.Status != "" {
		q = q.Where("invoice_status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.DriverID != nil {
		q = q.Where("driver_id = ?", *filter.DriverID)
	}

	//期間はinvoice_date / invoice_due / created_atのどれかで切る
	dateField := filter.DateField
	switch dateField {
	case "invoice_date", "invoice_due", "created_at":
		// OK
	default:
		dateField = "invoice_date"
	}
	if filter.From != nil {
		q = q.Where(dateField+" >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where(dateField+" <= ?", *filter.To)
	}

	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Where("invoice_num ILIKE ? OR po_num ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Invoice{}, 0, err
	}

	//新しい順
	q = q.Order("created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	q = q.Limit(limit).Offset((page - 1) * limit)

	var invoices []model.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return []model.Invoice{}, 0, err
	}
	return invoices, total, nil
}

func (r *InvoiceGormRepository) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *InvoiceGormRepository) FindNumbersByIDs(ctx context.Context, invoiceIDs []string) (map[string]string, error) {
	numbers := map[string]string{}
	if len(invoiceIDs) == 0 {
		return numbers, nil
	}

	var rows []model.Invoice
	err := r.db.WithContext(ctx).
		Select("id", "invoice_num").
		Where("id IN ?", invoiceIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		numbers[row.ID] = row.InvoiceNum
	}
	return numbers, nil
}
