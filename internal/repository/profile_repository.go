package repository

import (
	"context"

	"app/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile model.Profile) error
	Update(ctx context.Context, profile model.Profile) error
	UpdateRole(ctx context.Context, profileID string, role model.UserRole) error
	UpdatePasswordHash(ctx context.Context, profileID string, hash string) error

	FindByID(ctx context.Context, profileID string) (model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
}
