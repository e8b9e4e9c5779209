package models

import "time"

type MemberRole string

const (
	RoleOwner     MemberRole = "owner"
	RoleDeveloper MemberRole = "developer"
	RoleTester    MemberRole = "tester"
	RoleGuest     MemberRole = "guest"
)

// ValidInvitationRole reports whether a role can be offered by an
// invitation. Owner is derived from project ownership and never stored.
func ValidInvitationRole(role MemberRole) bool {
	switch role {
	case RoleDeveloper, RoleTester, RoleGuest:
		return true
	}
	return false
}

// Privilege orders roles for deterministic resolution when a user somehow
// holds more than one membership on the same project.
func (r MemberRole) Privilege() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleDeveloper:
		return 2
	case RoleTester:
		return 1
	default:
		return 0
	}
}

type TeamMember struct {
	TeamID   uint64     `gorm:"primarykey" json:"team_id"`
	UserID   uint64     `gorm:"primarykey" json:"user_id"`
	Role     MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt time.Time  `json:"joined_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
