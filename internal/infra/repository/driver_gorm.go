package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DriverGormRepository struct {
	db *gorm.DB
}

func NewDriverGormRepository(db *gorm.DB) *DriverGormRepository {
	return &DriverGormRepository{db: db}
}

func (r *DriverGormRepository) Create(ctx context.Context, driver model.Driver) error {
	return r.db.WithContext(ctx).Create(&driver).Error
}

func (r *DriverGormRepository) UpdateStatus(ctx context.Context, driverID string, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Driver{}).
		Where("id = ?", driverID).
		Update("driver_status", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DriverGormRepository) FindByID(ctx context.Context, driverID string) (model.Driver, error) {
	var d model.Driver
	err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", driverID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Driver{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Driver{}, err
	}
	return d, nil
}

func (r *DriverGormRepository) List(ctx context.Context, activeOnly bool) ([]model.Driver, error) {
	q := r.db.WithContext(ctx).Preload("Profile")
	if activeOnly {
		q = q.Where("driver_status = ?", true)
	}

	var drivers []model.Driver
	if err := q.Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}
