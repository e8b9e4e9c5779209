package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerUserID uint64         `gorm:"not null;index" json:"owner_user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner User   `gorm:"foreignKey:OwnerUserID" json:"owner,omitempty"`
	Teams []Team `gorm:"foreignKey:ProjectID" json:"teams,omitempty"`
	Bugs  []Bug  `gorm:"foreignKey:ProjectID" json:"-"`
	Todos []Todo `gorm:"foreignKey:ProjectID" json:"-"`
}
