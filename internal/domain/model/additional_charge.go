package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 明細以外の追加料金（待機料金、燃料サーチャージなど）。
type AdditionalCharge struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID string `gorm:"type:uuid;not null;index" json:"invoice_id"`

	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
