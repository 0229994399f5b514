package model

import (
	"time"

	"gorm.io/datatypes"
)

// 全操作の集約ログ（ログイン、閲覧、印刷、権限変更など）。
// 請求書の変更はInvoiceChangeLogと二重に記録される。こちらもINSERTのみ。
type SystemLog struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	//操作名。change_typeと同じ値のことが多いが、それ以外もあり得る。
	Action string `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（invoice / userなど）とID
	EntityType string `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID   string `gorm:"type:uuid;index" json:"entity_id"`

	//操作の付随情報。previous/newのサブキーを含む場合がある。
	Details datatypes.JSONMap `gorm:"type:jsonb" json:"details"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
