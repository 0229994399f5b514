package repository

import (
	"context"

	"app/internal/domain/model"
)

type ClientRepository interface {
	Create(ctx context.Context, client model.Client) error
	Update(ctx context.Context, client model.Client) error
	Delete(ctx context.Context, clientID string) error

	FindByID(ctx context.Context, clientID string) (model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
}

type ClientBranchRepository interface {
	Create(ctx context.Context, branch model.ClientBranch) error
	Update(ctx context.Context, branch model.ClientBranch) error
	Delete(ctx context.Context, branchID string) error

	FindByID(ctx context.Context, branchID string) (model.ClientBranch, error)
	ListByClientID(ctx context.Context, clientID string) ([]model.ClientBranch, error)
}
