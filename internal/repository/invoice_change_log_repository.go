package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// ログフィードの絞り込み条件。invoice_change_logsとsystem_logsで共用する。
type LogListFilter struct {
	//change_type / actionの完全一致。空なら全件。
	ActionType string

	CreatedFrom *time.Time
	CreatedTo   *time.Time

	Limit int
}

// 請求書変更ログの保存・取得の約束。追記専用でUpdate/Deleteは無い。
type InvoiceChangeLogRepository interface {
	Create(ctx context.Context, log model.InvoiceChangeLog) error

	//新しい順、Invoice（請求書番号）込みで返す
	List(ctx context.Context, filter LogListFilter) ([]model.InvoiceChangeLog, error)

	ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.InvoiceChangeLog, error)
}

// 集約ログの保存・取得の約束。こちらも追記専用。
type SystemLogRepository interface {
	Create(ctx context.Context, log model.SystemLog) error

	//新しい順で返す
	List(ctx context.Context, filter LogListFilter) ([]model.SystemLog, error)
}
