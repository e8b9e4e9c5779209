package models

import (
	"time"

	"gorm.io/gorm"
)

type Todo struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	DueDate     *time.Time     `json:"due_date"`
	ProjectID   uint64         `gorm:"not null;index" json:"project_id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
