package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 請求書の明細1件（搬送1件分）。
type InvoiceItem struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID string `gorm:"type:uuid;not null;index" json:"invoice_id"`

	//集荷先と搬送先の住所
	PickupAddress  string `gorm:"type:text" json:"pickup_address"`
	DropoffAddress string `gorm:"type:text" json:"dropoff_address"`

	//搬送する機材の情報
	EquipDesc string `gorm:"type:text" json:"equip_desc"`
	EquipNum  string `gorm:"type:varchar(100)" json:"equip_num"`
	ModelNum  string `gorm:"type:varchar(100)" json:"model_num"`
	SerialNum string `gorm:"type:varchar(100)" json:"serial_num"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	StatusType string `gorm:"type:varchar(30);not null;default:'Pending'" json:"status_type"`

	//距離・所要時間・燃料の見積もり（距離APIと燃料単価から計算。未計算ならnull）
	EstimatedDistanceMiles   *float64            `gorm:"type:numeric(10,2)" json:"estimated_distance_miles"`
	EstimatedDurationMinutes *int                `json:"estimated_duration_minutes"`
	EstimatedFuelGallons     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"estimated_fuel_gallons"`
	EstimatedFuelCost        decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"estimated_fuel_cost"`
	FuelPricePerGallon       decimal.NullDecimal `gorm:"type:numeric(10,3)" json:"fuel_price_per_gallon"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
