package models

import (
	"time"

	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

type Invitation struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	Email     string           `gorm:"type:varchar(255);not null;index" json:"email"`
	Name      string           `gorm:"type:varchar(255)" json:"name"`
	Role      MemberRole       `gorm:"type:varchar(20);not null" json:"role"`
	ProjectID uint64           `gorm:"not null;index" json:"project_id"`
	InvitedBy uint64           `gorm:"not null" json:"invited_by"`
	Status    InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Token     string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time        `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Inviter User    `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

// Expired reports whether the invitation's lifetime has passed. Expiry is
// derived, never written back.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
