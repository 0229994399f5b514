package repository

import (
	"context"

	"app/internal/domain/model"
)

type DriverRepository interface {
	Create(ctx context.Context, driver model.Driver) error
	UpdateStatus(ctx context.Context, driverID string, active bool) error

	FindByID(ctx context.Context, driverID string) (model.Driver, error)

	//activeOnlyがtrueなら稼働中のドライバーだけ返す（Profile込み）
	List(ctx context.Context, activeOnly bool) ([]model.Driver, error)
}
