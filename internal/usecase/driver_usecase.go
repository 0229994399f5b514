package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ドライバーの登録・一覧・稼働状態の切り替え。
type DriverUsecase struct {
	driverRepo  repo.DriverRepository
	profileRepo repo.ProfileRepository
	idGen       IDGenerator
}

// DI
func NewDriverUsecase(
	driverRepo repo.DriverRepository,
	profileRepo repo.ProfileRepository,
	idGen IDGenerator,
) *DriverUsecase {
	return &DriverUsecase{
		driverRepo:  driverRepo,
		profileRepo: profileRepo,
		idGen:       idGen,
	}
}

type CreateDriverInput struct {
	ProfileID  string `json:"profile_id"`
	LicenseNum string `json:"license_num"`
}

func (u *DriverUsecase) Create(ctx context.Context, in CreateDriverInput) (model.Driver, error) {
	if in.ProfileID == "" {
		return model.Driver{}, NewHTTPError(http.StatusBadRequest, "profile is required")
	}

	//プロフィールの存在確認
	if _, err := u.profileRepo.FindByID(ctx, in.ProfileID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Driver{}, NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return model.Driver{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	driver := model.Driver{
		ID:           u.idGen.NewID(),
		ProfileID:    in.ProfileID,
		LicenseNum:   in.LicenseNum,
		DriverStatus: true,
	}

	if err := u.driverRepo.Create(ctx, driver); err != nil {
		return model.Driver{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return driver, nil
}

func (u *DriverUsecase) SetStatus(ctx context.Context, driverID string, active bool) error {
	if driverID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.driverRepo.UpdateStatus(ctx, driverID, active)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// Listはドライバー一覧を返す。activeOnlyなら割当候補（稼働中）だけ。
func (u *DriverUsecase) List(ctx context.Context, activeOnly bool) ([]model.Driver, error) {
	drivers, err := u.driverRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return drivers, nil
}
