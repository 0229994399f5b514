package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) Create(ctx context.Context, profile model.Profile) error {
	return r.db.WithContext(ctx).Create(&profile).Error
}

func (r *ProfileGormRepository) Update(ctx context.Context, profile model.Profile) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"full_name": profile.FullName,
			"email":     profile.Email,
			"is_active": profile.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProfileGormRepository) UpdateRole(ctx context.Context, profileID string, role model.UserRole) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", profileID).
		Update("user_role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProfileGormRepository) UpdatePasswordHash(ctx context.Context, profileID string, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", profileID).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProfileGormRepository) FindByID(ctx context.Context, profileID string) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", profileID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileGormRepository) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
