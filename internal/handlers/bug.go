package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/bugtracker-api/internal/dto"
	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
	"github.com/yukikurage/bugtracker-api/internal/middleware"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/services"
	"github.com/yukikurage/bugtracker-api/internal/utils"
)

// BugHandler coordinates bug HTTP handlers.
type BugHandler struct {
	bugService *services.BugService
}

// NewBugHandler creates a new BugHandler.
func NewBugHandler(bugService *services.BugService) *BugHandler {
	return &BugHandler{
		bugService: bugService,
	}
}

// parseOptionalProjectID reads the projectId query parameter. Absent,
// "null" and "undefined" all mean no filter; clients send the literal
// strings when their state has no selection.
func parseOptionalProjectID(c *gin.Context) (*uint64, bool) {
	raw := c.Query("projectId")
	if raw == "" || raw == "null" || raw == "undefined" {
		return nil, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid projectId")
		return nil, false
	}
	return &id, true
}

// List returns bugs where the caller is reporter or assignee.
func (h *BugHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	projectID, ok := parseOptionalProjectID(c)
	if !ok {
		return
	}

	var status *models.BugStatus
	if raw := c.Query("status"); raw != "" {
		s := models.BugStatus(raw)
		switch s {
		case models.BugStatusOpen, models.BugStatusInProgress, models.BugStatusClosed:
			status = &s
		default:
			apierrors.BadRequest(c, "Invalid status")
			return
		}
	}

	params := utils.GetPaginationParams(c)

	bugs, total, err := h.bugService.ListBugs(services.ListBugsInput{
		UserID:    userID,
		ProjectID: projectID,
		Status:    status,
		Page:      params.Page,
		PageSize:  params.Limit,
	})
	if err != nil {
		respondBugError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BugListResponse{
		Bugs:       dto.ToBugDTOs(bugs),
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
	})
}

// Create files a new bug reported by the caller.
func (h *BugHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateBugRequest struct {
		Title       string             `json:"title" binding:"required,max=255"`
		Description string             `json:"description"`
		Severity    models.BugSeverity `json:"severity"`
		ProjectID   uint64             `json:"project_id" binding:"required"`
		AssigneeID  *uint64            `json:"assignee_id"`
	}

	var req CreateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	bug, err := h.bugService.CreateBug(services.CreateBugInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		ProjectID:   req.ProjectID,
		ReporterID:  userID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondBugError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBugDTO(*bug))
}

// Get returns one bug visible to the caller.
func (h *BugHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bugID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bug, err := h.bugService.GetBug(bugID, userID)
	if err != nil {
		respondBugError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBugDTO(*bug))
}

// Update updates a bug reported by the caller.
func (h *BugHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bugID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateBugRequest struct {
		Title       *string             `json:"title"`
		Description *string             `json:"description"`
		Status      *models.BugStatus   `json:"status"`
		Severity    *models.BugSeverity `json:"severity"`
		AssigneeID  *uint64             `json:"assignee_id"`
	}

	var req UpdateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	bug, err := h.bugService.UpdateBug(bugID, userID, services.UpdateBugInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Severity:    req.Severity,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondBugError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBugDTO(*bug))
}

// Delete removes a bug reported by the caller.
func (h *BugHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bugID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bugService.DeleteBug(bugID, userID); err != nil {
		respondBugError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bug deleted"})
}

func respondBugError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBugNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrBugTitleRequired),
		errors.Is(err, services.ErrInvalidBugStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
