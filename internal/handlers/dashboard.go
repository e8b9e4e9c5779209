package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
	"github.com/yukikurage/bugtracker-api/internal/middleware"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

// DashboardHandler coordinates dashboard HTTP handlers.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Get returns the dashboard for a scope. The projectId query parameter is
// interpreted once here: absent, "null" or "undefined" means all accessible
// projects, anything else must be a numeric project id.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	projectID, ok := parseOptionalProjectID(c)
	if !ok {
		return
	}

	scope := services.ScopeAll()
	if projectID != nil {
		scope = services.ScopeProject(*projectID)
	}

	dashboard, err := h.dashboardService.Compute(userID, scope)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
