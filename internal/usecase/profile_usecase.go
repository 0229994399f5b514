package usecase

import (
	"context"
	"errors"
	"log"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// プロフィールの参照・更新とパスワード変更。更新はsystem_logsにも残す。
type ProfileUsecase struct {
	profileRepo repo.ProfileRepository
	logUC       *InvoiceLogUsecase
}

// DI
func NewProfileUsecase(profileRepo repo.ProfileRepository, logUC *InvoiceLogUsecase) *ProfileUsecase {
	return &ProfileUsecase{profileRepo: profileRepo, logUC: logUC}
}

func (u *ProfileUsecase) Get(ctx context.Context, profileID string) (model.Profile, error) {
	p, err := u.profileRepo.FindByID(ctx, profileID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Profile{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Profile{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProfileUsecase) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := u.profileRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return profiles, nil
}

type UpdateProfileInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// UpdateProfileは本人のプロフィールを更新し、user_updateとして記録する。
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, profileID string, in UpdateProfileInput) (model.Profile, error) {
	existing, err := u.Get(ctx, profileID)
	if err != nil {
		return model.Profile{}, err
	}

	existing.FullName = in.FullName
	if in.Email != "" {
		existing.Email = in.Email
	}

	if err := u.profileRepo.Update(ctx, existing); err != nil {
		return model.Profile{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.logUC.LogUserAction(ctx, profileID, model.ChangeTypeUserUpdate, nil); err != nil {
		log.Printf("profile: user update log failed (ignored): %v", err)
	}

	return existing, nil
}

// ChangeRoleは対象ユーザーのロールを変更し、role_changeとして記録する。
// actorは操作した管理者。
func (u *ProfileUsecase) ChangeRole(ctx context.Context, actorID, targetID string, role model.UserRole) error {
	switch role {
	case model.RoleSuperAdmin, model.RoleAdmin, model.RoleUser, model.RoleDriver:
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	target, err := u.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if target.UserRole == role {
		return nil
	}

	if err := u.profileRepo.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.logUC.LogSystemAction(ctx, SystemActionInput{
		UserID:     actorID,
		Action:     string(model.ChangeTypeRoleChange),
		EntityType: "user",
		EntityID:   targetID,
		Details: map[string]any{
			"previous": map[string]any{"user_role": string(target.UserRole)},
			"new":      map[string]any{"user_role": string(role)},
		},
	})
	if err != nil {
		log.Printf("profile: role change log failed (ignored): %v", err)
	}

	return nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePasswordは現在のパスワードを確認してから更新し、
// user_password_changeとして記録する。
func (u *ProfileUsecase) ChangePassword(ctx context.Context, profileID string, in ChangePasswordInput) error {
	if len(in.NewPassword) < 8 {
		return NewHTTPError(http.StatusBadRequest, "password too short")
	}

	profile, err := u.Get(ctx, profileID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.profileRepo.UpdatePasswordHash(ctx, profileID, string(hash)); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.logUC.LogUserAction(ctx, profileID, model.ChangeTypeUserPasswordChange, nil); err != nil {
		log.Printf("profile: password change log failed (ignored): %v", err)
	}

	return nil
}
