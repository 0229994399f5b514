package model

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "Super Admin"
	RoleAdmin      UserRole = "Admin"
	RoleUser       UserRole = "User"
	RoleDriver     UserRole = "Driver"
)

// 管理者権限（ログ閲覧など）を持つロールか。
func (r UserRole) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// スタッフのプロフィール。IDは認証側のユーザーIDと同一。
type Profile struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	FullName string `gorm:"type:varchar(200)" json:"full_name"`
	Email    string `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`

	UserRole UserRole `gorm:"type:varchar(30);not null;default:'User'" json:"user_role"`

	//bcryptハッシュ。レスポンスには含めない。
	PasswordHash string `gorm:"type:varchar(200);not null" json:"-"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// フィードに表示する名前。名前が無ければメール、どちらも無ければUnknown User。
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Email != "" {
		return p.Email
	}
	return "Unknown User"
}
