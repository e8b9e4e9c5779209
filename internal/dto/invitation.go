package dto

import (
	"time"

	"github.com/yukikurage/bugtracker-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. Project and
// inviter names are denormalized for display; the token is never exposed.
type InvitationDTO struct {
	ID          uint64                  `json:"id"`
	Email       string                  `json:"email"`
	Name        string                  `json:"name"`
	Role        models.MemberRole       `json:"role"`
	ProjectID   uint64                  `json:"project_id"`
	ProjectName string                  `json:"project_name"`
	InvitedBy   uint64                  `json:"invited_by"`
	InviterName string                  `json:"inviter_name"`
	Status      models.InvitationStatus `json:"status"`
	ExpiresAt   time.Time               `json:"expires_at"`
	CreatedAt   time.Time               `json:"created_at"`
}

// ToInvitationDTO converts an invitation to DTO
func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:          invitation.ID,
		Email:       invitation.Email,
		Name:        invitation.Name,
		Role:        invitation.Role,
		ProjectID:   invitation.ProjectID,
		ProjectName: invitation.Project.Name,
		InvitedBy:   invitation.InvitedBy,
		InviterName: invitation.Inviter.Name,
		Status:      invitation.Status,
		ExpiresAt:   invitation.ExpiresAt,
		CreatedAt:   invitation.CreatedAt,
	}
}

// ToInvitationDTOs converts a slice of invitations to DTOs
func ToInvitationDTOs(invitations []models.Invitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = ToInvitationDTO(invitation)
	}
	return dtos
}
