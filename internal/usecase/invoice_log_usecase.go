package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/datatypes"
)

var (
	//必須IDが欠けていて記録できない
	ErrLogValidation = errors.New("missing required log parameters")

	//詳細ログ（invoice_change_logs）のINSERTに失敗
	ErrLogPersistence = errors.New("failed to record invoice change")
)

// 請求書変更の監査記録。詳細ログと集約ログの2段書き込みを担当する。
type InvoiceLogUsecase struct {
	changeLogRepo repo.InvoiceChangeLogRepository
	systemLogRepo repo.SystemLogRepository
	idGen         IDGenerator
	clock         Clock
}

// DI
func NewInvoiceLogUsecase(
	changeLogRepo repo.InvoiceChangeLogRepository,
	systemLogRepo repo.SystemLogRepository,
	idGen IDGenerator,
	clock Clock,
) *InvoiceLogUsecase {
	return &InvoiceLogUsecase{
		changeLogRepo: changeLogRepo,
		systemLogRepo: systemLogRepo,
		idGen:         idGen,
		clock:         clock,
	}
}

type RecordChangeInput struct {
	InvoiceID string
	UserID    string

	//変更前スナップショット（新規作成ならnil）
	PreviousData map[string]any

	//変更後スナップショット
	NewData map[string]any

	//空ならDetermineChangeTypeで決める
	ChangeType model.ChangeType

	Description string
}

// RecordChangeは請求書の変更を記録する。
//
// 書き込みは必ずinvoice_change_logs→system_logsの順で行う。
// 詳細ログの失敗はErrLogPersistenceとして呼び出し側へ返すが、
// 集約ログの失敗はログに出して握りつぶす（詳細ログが正、集約ログは
// ベストエフォート）。この非対称は仕様なので並列化しないこと。
func (u *InvoiceLogUsecase) RecordChange(ctx context.Context, in RecordChangeInput) error {
	if in.InvoiceID == "" || in.UserID == "" {
		return ErrLogValidation
	}

	changeType := in.ChangeType
	if changeType == "" {
		changeType = model.DetermineChangeType(in.PreviousData, in.NewData)
	}

	//1段目: 詳細ログ（これが失敗したら中断）
	changeLog := model.InvoiceChangeLog{
		ID:           u.idGen.NewID(),
		InvoiceID:    in.InvoiceID,
		ChangedBy:    in.UserID,
		PreviousData: datatypes.JSONMap(in.PreviousData),
		NewData:      datatypes.JSONMap(in.NewData),
		ChangeType:   changeType,
		Description:  in.Description,
		CreatedAt:    u.clock.Now(),
	}
	if err := u.changeLogRepo.Create(ctx, changeLog); err != nil {
		return fmt.Errorf("%w: %v", ErrLogPersistence, err)
	}

	//2段目: 集約ログ（失敗しても呼び出し側には返さない）
	details := map[string]any{
		"invoiceId":  in.InvoiceID,
		"changeType": string(changeType),
	}
	if status, ok := snapshotString(in.PreviousData, "invoice_status"); ok {
		details["previousStatus"] = status
	}
	if status, ok := snapshotString(in.NewData, "invoice_status"); ok {
		details["newStatus"] = status
	}
	if num, ok := snapshotString(in.NewData, "invoice_num"); ok {
		details["invoiceNumber"] = num
	} else if num, ok := snapshotString(in.PreviousData, "invoiceNumber"); ok {
		details["invoiceNumber"] = num
	}

	err := u.LogSystemAction(ctx, SystemActionInput{
		UserID:      in.UserID,
		Action:      string(changeType),
		EntityType:  "invoice",
		EntityID:    in.InvoiceID,
		Details:     details,
		Description: in.Description,
	})
	if err != nil {
		log.Printf("invoice log: system log insert failed (ignored): %v", err)
	}

	return nil
}

type SystemActionInput struct {
	UserID      string
	Action      string
	EntityType  string
	EntityID    string
	Details     map[string]any
	Description string
}

// LogSystemActionは任意の操作をsystem_logsに1件記録する。
func (u *InvoiceLogUsecase) LogSystemAction(ctx context.Context, in SystemActionInput) error {
	if in.UserID == "" || in.Action == "" || in.EntityType == "" {
		return ErrLogValidation
	}

	details := map[string]any{}
	for k, v := range in.Details {
		details[k] = v
	}

	description := in.Description
	if description == "" {
		description = fmt.Sprintf("%s on %s", in.Action, in.EntityType)
	}
	details["description"] = description

	return u.systemLogRepo.Create(ctx, model.SystemLog{
		ID:         u.idGen.NewID(),
		UserID:     in.UserID,
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Details:    datatypes.JSONMap(details),
		CreatedAt:  u.clock.Now(),
	})
}

// LogUserActionはログイン・ログアウトなどユーザー自身の操作を記録する。
func (u *InvoiceLogUsecase) LogUserAction(ctx context.Context, userID string, actionType model.ChangeType, details map[string]any) error {
	if userID == "" || actionType == "" {
		return ErrLogValidation
	}

	return u.LogSystemAction(ctx, SystemActionInput{
		UserID:      userID,
		Action:      string(actionType),
		EntityType:  "user",
		EntityID:    userID,
		Details:     details,
		Description: fmt.Sprintf("User %s", actionType),
	})
}

// LogInvoiceViewは請求書の閲覧を記録する。
func (u *InvoiceLogUsecase) LogInvoiceView(ctx context.Context, invoiceID, userID, invoiceNum string) error {
	return u.LogSystemAction(ctx, SystemActionInput{
		UserID:      userID,
		Action:      string(model.ChangeTypeView),
		EntityType:  "invoice",
		EntityID:    invoiceID,
		Details:     map[string]any{"invoiceNumber": invoiceNum},
		Description: fmt.Sprintf("Viewed invoice %s", invoiceNum),
	})
}

// LogInvoiceDocumentはPDF生成・印刷・メール送付を記録する。
func (u *InvoiceLogUsecase) LogInvoiceDocument(ctx context.Context, invoiceID, userID string, actionType model.ChangeType, invoiceNum string) error {
	verbs := map[model.ChangeType]string{
		model.ChangeTypePDFGenerated: "Generated PDF for",
		model.ChangeTypePrint:        "Printed",
		model.ChangeTypeEmail:        "Emailed",
	}
	verb, ok := verbs[actionType]
	if !ok {
		verb = string(actionType)
	}

	return u.LogSystemAction(ctx, SystemActionInput{
		UserID:      userID,
		Action:      string(actionType),
		EntityType:  "invoice",
		EntityID:    invoiceID,
		Details:     map[string]any{"invoiceNumber": invoiceNum},
		Description: fmt.Sprintf("%s invoice %s", verb, invoiceNum),
	})
}

// スナップショットから文字列フィールドを取り出す
func snapshotString(data map[string]any, key string) (string, bool) {
	if data == nil {
		return "", false
	}
	s, ok := data[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
