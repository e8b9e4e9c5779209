package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/bugtracker-api/internal/constants"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrInvitationNotPending is returned when the guarded status update
	// matches no row, i.e. the invitation was already processed or expired
	// between the caller's check and the write.
	ErrInvitationNotPending = errors.New("invitation repository: invitation is not pending")
	// ErrMembershipExists is returned when accepting would duplicate a
	// (team, user) membership.
	ErrMembershipExists = errors.New("invitation repository: membership already exists")
	// ErrInvitationExpired is returned when the guarded update matched no
	// row because the invitation is still pending but past its expiry.
	ErrInvitationExpired = errors.New("invitation repository: invitation has expired")
)

// transitionFailure classifies a zero-row guarded update: the row either
// left the pending state or expired while still pending.
func transitionFailure(db *gorm.DB, invitationID uint64, now time.Time) error {
	var invitation models.Invitation
	if err := db.First(&invitation, invitationID).Error; err == nil &&
		invitation.Status == models.InvitationPending &&
		invitation.Expired(now) {
		return ErrInvitationExpired
	}
	return ErrInvitationNotPending
}

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create persists a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByID finds an invitation with project and inviter preloaded
func (r *GormInvitationRepository) FindByID(id uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Preload("Project").
		Preload("Inviter").
		First(&invitation, id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPending finds a pending, unexpired invitation for an email on a project
func (r *GormInvitationRepository) FindPending(email string, projectID uint64, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.
		Where("email = ? AND project_id = ? AND status = ? AND expires_at > ?",
			email, projectID, models.InvitationPending, now).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListPendingByEmail lists pending, unexpired invitations addressed to an email
func (r *GormInvitationRepository) ListPendingByEmail(email string, now time.Time) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.Preload("Project").
		Preload("Inviter").
		Where("email = ? AND status = ? AND expires_at > ?",
			email, models.InvitationPending, now).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Accept transitions pending -> accepted and creates the membership in one
// transaction. The status transition is a conditional update guarded by the
// current status and expiry, so a concurrent second accept sees zero
// affected rows instead of double-transitioning.
func (r *GormInvitationRepository) Accept(invitationID, userID uint64, now time.Time) (*models.TeamMember, error) {
	var member *models.TeamMember

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ? AND expires_at > ?",
				invitationID, models.InvitationPending, now).
			Update("status", models.InvitationAccepted)
		if res.Error != nil {
			return fmt.Errorf("failed to update invitation status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return transitionFailure(tx, invitationID, now)
		}

		var invitation models.Invitation
		if err := tx.First(&invitation, invitationID).Error; err != nil {
			return fmt.Errorf("failed to reload invitation: %w", err)
		}

		// The membership needs a team; a project with no team yet gets a
		// default one inside the same transaction.
		var team models.Team
		err := tx.Where("project_id = ?", invitation.ProjectID).
			Order("id ASC").
			First(&team).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			team = models.Team{
				Name:      constants.DefaultTeamName,
				ProjectID: invitation.ProjectID,
			}
			if err := tx.Create(&team).Error; err != nil {
				return fmt.Errorf("failed to create default team: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to find team: %w", err)
		}

		var existing int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", team.ID, userID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing > 0 {
			return ErrMembershipExists
		}

		m := models.TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			Role:     invitation.Role,
			JoinedAt: now,
		}
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}

		member = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// Decline transitions pending -> declined with the same guard as Accept
func (r *GormInvitationRepository) Decline(invitationID uint64, now time.Time) error {
	res := r.db.Model(&models.Invitation{}).
		Where("id = ? AND status = ? AND expires_at > ?",
			invitationID, models.InvitationPending, now).
		Update("status", models.InvitationDeclined)
	if res.Error != nil {
		return fmt.Errorf("failed to update invitation status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return transitionFailure(r.db, invitationID, now)
	}
	return nil
}

// Delete removes an invitation
func (r *GormInvitationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Invitation{}, id).Error
}
