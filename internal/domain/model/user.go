package model

import "time"

type Role string

const (
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
)

// アプリ利用者。IDはUUID文字列で、伝票のPostedBy/ApprovedByにそのまま刻印される。
type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	DisplayName  string `gorm:"type:varchar(100);not null" json:"display_name"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'CASHIER'" json:"role"`
	TokenVersion int    `gorm:"not null;default:0" json:"token_version"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
