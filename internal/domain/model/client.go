package model

import "time"

// 請求先クライアント（運送依頼元の会社）。
type Client struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	ClientName string `gorm:"type:varchar(200);not null" json:"client_name"`

	//請求書番号に埋め込む短縮名（例: acme）
	ShortName string `gorm:"type:varchar(50);not null" json:"short_name"`

	Email   string `gorm:"type:varchar(200)" json:"email"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
