package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OwnedProjects []Project    `gorm:"foreignKey:OwnerUserID" json:"-"`
	Memberships   []TeamMember `gorm:"foreignKey:UserID" json:"-"`
	ReportedBugs  []Bug        `gorm:"foreignKey:UserID" json:"-"`
	Todos         []Todo       `gorm:"foreignKey:UserID" json:"-"`
}
