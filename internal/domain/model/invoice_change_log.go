package model

import (
	"time"

	"gorm.io/datatypes"
)

// 請求書の変更履歴（詳細ログ）。
// 「誰が」「どの請求書を」「どう変えたか」を前後のスナップショットごと残す。
// アプリからはINSERTのみで、更新・削除はしない。
type InvoiceChangeLog struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	InvoiceID string `gorm:"type:uuid;not null;index" json:"invoice_id"`

	//変更したユーザーのID
	ChangedBy string `gorm:"type:uuid;not null;index" json:"changed_by"`

	//変更前のスナップショット（新規作成時はnull）
	PreviousData datatypes.JSONMap `gorm:"type:jsonb" json:"previous_data"`

	//変更後のスナップショット
	NewData datatypes.JSONMap `gorm:"type:jsonb" json:"new_data"`

	ChangeType ChangeType `gorm:"type:varchar(50);not null;index" json:"change_type"`

	//任意の説明文
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	//請求書番号の表示用join
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}
