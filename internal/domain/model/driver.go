package model

import "time"

// ドライバー。表示名などはProfile側に持つ。
type Driver struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	//対応するプロフィール（ユーザー）のID
	ProfileID string `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`

	LicenseNum string `gorm:"type:varchar(100)" json:"license_num"`

	//稼働中かどうか。falseのドライバーは割当候補に出さない。
	DriverStatus bool `gorm:"not null;default:true;index" json:"driver_status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}
