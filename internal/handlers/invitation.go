package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/bugtracker-api/internal/dto"
	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
	"github.com/yukikurage/bugtracker-api/internal/middleware"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

// InvitationHandler coordinates invitation lifecycle HTTP handlers.
type InvitationHandler struct {
	invitationService *services.InvitationService
	authService       *services.AuthService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService, authService *services.AuthService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		authService:       authService,
	}
}

func (h *InvitationHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, _ := middleware.GetUserID(c)
	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}

// Create invites an email address to join a project.
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateInvitationRequest struct {
		ProjectID uint64            `json:"project_id" binding:"required"`
		Email     string            `json:"email" binding:"required,email"`
		Name      string            `json:"name" binding:"max=255"`
		Role      models.MemberRole `json:"role" binding:"required"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Create(services.CreateInvitationInput{
		InviterID: userID,
		ProjectID: req.ProjectID,
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation))
}

// List returns the caller's pending, unexpired invitations.
func (h *InvitationHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListForUser(user)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": dto.ToInvitationDTOs(invitations)})
}

// Get returns a single invitation visible to the caller.
func (h *InvitationHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invitation, err := h.invitationService.Get(user, invitationID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation))
}

// Respond accepts or declines a pending invitation addressed to the caller.
func (h *InvitationHandler) Respond(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type RespondRequest struct {
		Action string `json:"action" binding:"required,oneof=accept decline"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Action must be accept or decline")
		return
	}

	if req.Action == "accept" {
		member, err := h.invitationService.Accept(user, invitationID)
		if err != nil {
			respondInvitationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Invitation accepted",
			"team_id": member.TeamID,
			"role":    member.Role,
		})
		return
	}

	if err := h.invitationService.Decline(user, invitationID); err != nil {
		respondInvitationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}

// Revoke deletes a pending invitation the caller issued.
func (h *InvitationHandler) Revoke(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.invitationService.Revoke(userID, invitationID); err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation revoked"})
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvitationExists),
		errors.Is(err, services.ErrInvitationProcessed):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.Gone(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteEmail),
		errors.Is(err, services.ErrInvalidInviteRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner),
		errors.Is(err, services.ErrNotInviter):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
