package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/bugtracker-api/internal/dto"
	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
	"github.com/yukikurage/bugtracker-api/internal/middleware"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

// ProjectHandler coordinates project and team HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns every project the caller owns or is a member of,
// each annotated with the caller's role.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	projects, err := h.projectService.ListAccessibleProjects(userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	dtos := make([]dto.ProjectWithRoleDTO, len(projects))
	for i, p := range projects {
		dtos[i] = dto.ToProjectWithRoleDTO(p)
	}

	c.JSON(http.StatusOK, gin.H{"projects": dtos})
}

// GetProject returns one project with its teams and the caller's role.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, teams, role, err := h.projectService.GetProject(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project, teams, role))
}

// UpdateProject updates a project's name and description.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, userID, req.Name, req.Description)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and everything under it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// CreateTeam creates a team under a project.
func (h *ProjectHandler) CreateTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTeamRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.projectService.CreateTeam(services.CreateTeamInput{
		ProjectID:   projectID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListMembers lists all memberships across a project's teams.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	dtos := make([]dto.TeamMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = dto.ToTeamMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"members": dtos})
}

// RemoveMember removes a user from one of the project's teams.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "teamId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, userID, teamID, targetID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrInvalidTeamName),
		errors.Is(err, services.ErrCannotRemoveSelf):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
