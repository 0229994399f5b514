package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// クライアントと支店のCRUD。
type ClientUsecase struct {
	clientRepo repo.ClientRepository
	branchRepo repo.ClientBranchRepository
	idGen      IDGenerator
}

// DI
func NewClientUsecase(
	clientRepo repo.ClientRepository,
	branchRepo repo.ClientBranchRepository,
	idGen IDGenerator,
) *ClientUsecase {
	return &ClientUsecase{
		clientRepo: clientRepo,
		branchRepo: branchRepo,
		idGen:      idGen,
	}
}

type SaveClientInput struct {
	ClientName string `json:"client_name"`
	ShortName  string `json:"short_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (u *ClientUsecase) Create(ctx context.Context, in SaveClientInput) (model.Client, error) {
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return model.Client{}, NewHTTPError(http.StatusBadRequest, "client name is required")
	}

	short := strings.TrimSpace(in.ShortName)
	if short == "" {
		//短縮名が無ければ名前の先頭単語を小文字化して使う
		short = strings.ToLower(strings.Fields(name)[0])
	}

	client := model.Client{
		ID:         u.idGen.NewID(),
		ClientName: name,
		ShortName:  short,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
	}

	if err := u.clientRepo.Create(ctx, client); err != nil {
		return model.Client{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return client, nil
}

func (u *ClientUsecase) Update(ctx context.Context, clientID string, in SaveClientInput) (model.Client, error) {
	if clientID == "" {
		return model.Client{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	existing, err := u.clientRepo.FindByID(ctx, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Client{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Client{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing.ClientName = in.ClientName
	existing.ShortName = in.ShortName
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.Address = in.Address

	if err := u.clientRepo.Update(ctx, existing); err != nil {
		return model.Client{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return existing, nil
}

func (u *ClientUsecase) Delete(ctx context.Context, clientID string) error {
	err := u.clientRepo.Delete(ctx, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ClientUsecase) Get(ctx context.Context, clientID string) (model.Client, error) {
	client, err := u.clientRepo.FindByID(ctx, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Client{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Client{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return client, nil
}

func (u *ClientUsecase) List(ctx context.Context) ([]model.Client, error) {
	clients, err := u.clientRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return clients, nil
}

type SaveBranchInput struct {
	BranchName string `json:"branch_name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

func (u *ClientUsecase) CreateBranch(ctx context.Context, clientID string, in SaveBranchInput) (model.ClientBranch, error) {
	if clientID == "" {
		return model.ClientBranch{}, NewHTTPError(http.StatusBadRequest, "invalid client id")
	}
	if strings.TrimSpace(in.BranchName) == "" {
		return model.ClientBranch{}, NewHTTPError(http.StatusBadRequest, "branch name is required")
	}

	//親クライアントの存在確認
	if _, err := u.clientRepo.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ClientBranch{}, NewHTTPError(http.StatusNotFound, "client not found")
		}
		return model.ClientBranch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	branch := model.ClientBranch{
		ID:         u.idGen.NewID(),
		ClientID:   clientID,
		BranchName: in.BranchName,
		Address:    in.Address,
		Phone:      in.Phone,
	}

	if err := u.branchRepo.Create(ctx, branch); err != nil {
		return model.ClientBranch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return branch, nil
}

func (u *ClientUsecase) UpdateBranch(ctx context.Context, branchID string, in SaveBranchInput) (model.ClientBranch, error) {
	existing, err := u.branchRepo.FindByID(ctx, branchID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ClientBranch{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.ClientBranch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing.BranchName = in.BranchName
	existing.Address = in.Address
	existing.Phone = in.Phone

	if err := u.branchRepo.Update(ctx, existing); err != nil {
		return model.ClientBranch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return existing, nil
}

func (u *ClientUsecase) DeleteBranch(ctx context.Context, branchID string) error {
	err := u.branchRepo.Delete(ctx, branchID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ClientUsecase) ListBranches(ctx context.Context, clientID string) ([]model.ClientBranch, error) {
	branches, err := u.branchRepo.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return branches, nil
}
