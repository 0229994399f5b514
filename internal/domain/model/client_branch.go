package model

import "time"

// クライアントの支店。請求書は支店単位で発行できる。
type ClientBranch struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID string `gorm:"type:uuid;not null;index" json:"client_id"`

	BranchName string `gorm:"type:varchar(200);not null" json:"branch_name"`
	Address    string `gorm:"type:text" json:"address"`
	Phone      string `gorm:"type:varchar(50)" json:"phone"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
