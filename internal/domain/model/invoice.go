package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	//下書き（未確定）の請求書。
	InvoiceStatusPendingBilling InvoiceStatus = "Pending Billing"

	//クライアントに送付済みの請求書。
	InvoiceStatusSent InvoiceStatus = "Invoice Sent"

	//入金済みの請求書。
	InvoiceStatusPaid InvoiceStatus = "Paid"

	//キャンセルされた請求書。
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// 請求書本体。明細はInvoiceItem、追加料金はAdditionalChargeに持つ。
type Invoice struct {
	//IDは請求書の主キー（UUID文字列）
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	//請求書番号（INV-YYYY-MM-DD-client-000形式）。表示用の一意な番号。
	InvoiceNum string `gorm:"type:varchar(100);not null;uniqueIndex" json:"invoice_num"`

	//発注番号（任意）
	PONum string `gorm:"type:varchar(100)" json:"po_num"`

	InvoiceDate time.Time `gorm:"type:date;not null" json:"invoice_date"`
	InvoiceDue  time.Time `gorm:"type:date;not null" json:"invoice_due"`

	ClientID string  `gorm:"type:uuid;not null;index" json:"client_id"`
	BranchID *string `gorm:"type:uuid;index" json:"branch_id"`

	//担当ドライバー（未割当ならnull）
	DriverID *string `gorm:"type:uuid;index" json:"driver_id"`

	InvoiceNotes string `gorm:"type:text" json:"invoice_notes"`

	//合計金額（明細＋追加料金）
	Total decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	InvoiceStatus InvoiceStatus `gorm:"type:varchar(30);not null;index" json:"invoice_status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
