package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) Create(ctx context.Context, client model.Client) error {
	return r.db.WithContext(ctx).Create(&client).Error
}

func (r *ClientGormRepository) Update(ctx context.Context, client model.Client) error {
	res := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ?", client.ID).
		Updates(map[string]any{
			"client_name": client.ClientName,
			"short_name":  client.ShortName,
			"email":       client.Email,
			"phone":       client.Phone,
			"address":     client.Address,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ClientGormRepository) Delete(ctx context.Context, clientID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", clientID).Delete(&model.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ClientGormRepository) FindByID(ctx context.Context, clientID string) (model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("id = ?", clientID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Client{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}

func (r *ClientGormRepository) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).Order("client_name ASC").Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

type ClientBranchGormRepository struct {
	db *gorm.DB
}

func NewClientBranchGormRepository(db *gorm.DB) *ClientBranchGormRepository {
	return &ClientBranchGormRepository{db: db}
}

func (r *ClientBranchGormRepository) Create(ctx context.Context, branch model.ClientBranch) error {
	return r.db.WithContext(ctx).Create(&branch).Error
}

func (r *ClientBranchGormRepository) Update(ctx context.Context, branch model.ClientBranch) error {
	res := r.db.WithContext(ctx).Model(&model.ClientBranch{}).
		Where("id = ?", branch.ID).
		Updates(map[string]any{
			"branch_name": branch.BranchName,
			"address":     branch.Address,
			"phone":       branch.Phone,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ClientBranchGormRepository) Delete(ctx context.Context, branchID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", branchID).Delete(&model.ClientBranch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ClientBranchGormRepository) FindByID(ctx context.Context, branchID string) (model.ClientBranch, error) {
	var b model.ClientBranch
	err := r.db.WithContext(ctx).Where("id = ?", branchID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ClientBranch{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ClientBranch{}, err
	}
	return b, nil
}

func (r *ClientBranchGormRepository) ListByClientID(ctx context.Context, clientID string) ([]model.ClientBranch, error) {
	var branches []model.ClientBranch
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("branch_name ASC").
		Find(&branches).Error
	if err != nil {
		return nil, err
	}
	return branches, nil
}
