package models

import (
	"time"

	"gorm.io/gorm"
)

type BugStatus string

const (
	BugStatusOpen       BugStatus = "Open"
	BugStatusInProgress BugStatus = "In Progress"
	BugStatusClosed     BugStatus = "Closed"
)

type BugSeverity string

const (
	SeverityLow      BugSeverity = "Low"
	SeverityMedium   BugSeverity = "Medium"
	SeverityHigh     BugSeverity = "High"
	SeverityCritical BugSeverity = "Critical"
)

type Bug struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      BugStatus      `gorm:"type:varchar(20);not null;default:'Open';index" json:"status"`
	Severity    BugSeverity    `gorm:"type:varchar(20);not null;default:'Medium'" json:"severity"`
	ProjectID   uint64         `gorm:"not null;index" json:"project_id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	AssigneeID  *uint64        `gorm:"index" json:"assignee_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Reporter User    `gorm:"foreignKey:UserID" json:"reporter,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
