package model

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(100)" json:"last_name"`
	DisplayName string     `gorm:"type:varchar(200);not null;index" json:"display_name"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	Phone       string     `gorm:"type:varchar(30)" json:"phone"`
	Email       string     `gorm:"type:varchar(255)" json:"email"`
	Address     string     `gorm:"type:text" json:"address"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
