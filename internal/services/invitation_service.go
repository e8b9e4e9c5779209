package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
	"github.com/yukikurage/bugtracker-api/internal/utils"
)

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExists    = errors.New("a pending invitation already exists for this email")
	ErrInvitationProcessed = errors.New("invitation has already been processed")
	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrInvalidInviteEmail  = errors.New("a valid email is required")
	ErrInvalidInviteRole   = errors.New("invalid invitation role")
	ErrNotInviter          = errors.New("only the inviter can revoke an invitation")
)

// InvitationService drives the invitation lifecycle:
// pending -> accepted | declined, with expiry derived lazily from
// expires_at. No transition ever leaves a terminal state.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	access         *AccessService
	ttl            time.Duration
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(invitationRepo repository.InvitationRepository, access *AccessService, ttlDays int) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		access:         access,
		ttl:            time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// CreateInvitationInput represents parameters to invite an email to a project.
type CreateInvitationInput struct {
	InviterID uint64
	ProjectID uint64
	Email     string
	Name      string
	Role      models.MemberRole
}

// Create invites an email address to join a project at a role. Only the
// project owner may invite. At most one pending, unexpired invitation may
// exist per (email, project).
func (s *InvitationService) Create(input CreateInvitationInput) (*models.Invitation, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInviteEmail
	}
	if !models.ValidInvitationRole(input.Role) {
		return nil, ErrInvalidInviteRole
	}

	project, err := s.access.RequireProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if s.access.ResolveProjectRole(input.InviterID, project) != models.RoleOwner {
		return nil, ErrNotProjectOwner
	}

	now := time.Now()
	if _, err := s.invitationRepo.FindPending(email, input.ProjectID, now); err == nil {
		return nil, ErrInvitationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing invitations: %w", err)
	}

	invitation := &models.Invitation{
		Email:     email,
		Name:      strings.TrimSpace(input.Name),
		Role:      input.Role,
		ProjectID: input.ProjectID,
		InvitedBy: input.InviterID,
		Status:    models.InvitationPending,
		Token:     utils.GenerateInvitationToken(),
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return invitation, nil
}

// ListForUser returns the user's pending, unexpired invitations with project
// and inviter preloaded for display.
func (s *InvitationService) ListForUser(user *models.User) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListPendingByEmail(user.Email, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// Get returns a single invitation visible to the user: either the invitee or
// the inviter.
func (s *InvitationService) Get(user *models.User, invitationID uint64) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByID(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Email != user.Email && invitation.InvitedBy != user.ID {
		return nil, ErrInvitationNotFound
	}

	return invitation, nil
}

// Accept transitions the invitation to accepted and creates the membership
// atomically. A second concurrent accept fails with ErrInvitationProcessed
// instead of producing a duplicate membership.
func (s *InvitationService) Accept(user *models.User, invitationID uint64) (*models.TeamMember, error) {
	invitation, err := s.loadForInvitee(user, invitationID)
	if err != nil {
		return nil, err
	}

	member, err := s.invitationRepo.Accept(invitation.ID, user.ID, time.Now())
	if err != nil {
		// The guarded update lost a race with another transition.
		if errors.Is(err, repository.ErrInvitationNotPending) ||
			errors.Is(err, repository.ErrMembershipExists) {
			return nil, ErrInvitationProcessed
		}
		if errors.Is(err, repository.ErrInvitationExpired) {
			return nil, ErrInvitationExpired
		}
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return member, nil
}

// Decline transitions the invitation to declined. No membership is created.
func (s *InvitationService) Decline(user *models.User, invitationID uint64) error {
	invitation, err := s.loadForInvitee(user, invitationID)
	if err != nil {
		return err
	}

	if err := s.invitationRepo.Decline(invitation.ID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrInvitationNotPending) {
			return ErrInvitationProcessed
		}
		if errors.Is(err, repository.ErrInvitationExpired) {
			return ErrInvitationExpired
		}
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	return nil
}

// Revoke removes a pending invitation. Only the inviter may revoke.
func (s *InvitationService) Revoke(userID, invitationID uint64) error {
	invitation, err := s.invitationRepo.FindByID(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.InvitedBy != userID {
		return ErrNotInviter
	}
	if invitation.Status != models.InvitationPending {
		return ErrInvitationProcessed
	}

	if err := s.invitationRepo.Delete(invitation.ID); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	return nil
}

// loadForInvitee loads an invitation and checks the invitee preconditions
// shared by Accept and Decline: addressed to this user, still pending, not
// expired. A mismatched email reads as not-found so invitations are not
// enumerable by id.
func (s *InvitationService) loadForInvitee(user *models.User, invitationID uint64) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByID(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Email != user.Email {
		return nil, ErrInvitationNotFound
	}
	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationProcessed
	}
	if invitation.Expired(time.Now()) {
		return nil, ErrInvitationExpired
	}

	return invitation, nil
}
