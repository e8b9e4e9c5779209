package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/constants"
	"github.com/yukikurage/bugtracker-api/internal/database"
	"github.com/yukikurage/bugtracker-api/internal/dto"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

type projectTestEnv struct {
	db             *gorm.DB
	handler        *ProjectHandler
	projectService *services.ProjectService
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Team{},
		&models.TeamMember{},
		&models.Invitation{},
		&models.Bug{},
		&models.Todo{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	projectRepo := repository.NewProjectRepository(db)
	accessService := services.NewAccessService(projectRepo)
	projectService := services.NewProjectService(projectRepo, accessService)
	handler := NewProjectHandler(projectService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestEnv{
		db:             db,
		handler:        handler,
		projectService: projectService,
	}
}

func testContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func addTestMember(t *testing.T, db *gorm.DB, projectID, userID uint64, role models.MemberRole) *models.Team {
	t.Helper()

	team := &models.Team{Name: constants.DefaultTeamName, ProjectID: projectID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}).Error)
	return team
}

func TestProjectHandler_CreateProject(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	body, err := json.Marshal(map[string]string{
		"name":        "Tracker",
		"description": "Internal bug tracker",
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/projects", body, owner.ID)
	env.handler.CreateProject(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Tracker", response.Name)
	require.Equal(t, owner.ID, response.OwnerUserID)
}

func TestProjectHandler_ListProjects_IncludesMemberships(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	member := createTestUser(t, env.db, "member@example.com")

	owned, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Owned",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	joined, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Joined",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	addTestMember(t, env.db, joined.ID, member.ID, models.RoleDeveloper)

	c, w := testContext(http.MethodGet, "/api/projects", nil, member.ID)
	env.handler.ListProjects(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Projects []dto.ProjectWithRoleDTO `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Projects, 1)
	require.Equal(t, joined.ID, response.Projects[0].ID)
	require.Equal(t, models.RoleDeveloper, response.Projects[0].Role)

	// The owner sees both projects with the owner role.
	c, w = testContext(http.MethodGet, "/api/projects", nil, owner.ID)
	env.handler.ListProjects(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Projects, 2)
	for _, p := range response.Projects {
		require.Equal(t, models.RoleOwner, p.Role)
		require.Contains(t, []uint64{owned.ID, joined.ID}, p.ID)
	}
}

func TestProjectHandler_GetProject_HidesFromNonMembers(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	stranger := createTestUser(t, env.db, "stranger@example.com")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Private",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodGet, "/api/projects/"+strconv.FormatUint(project.ID, 10), nil, stranger.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(project.ID, 10)}}
	env.handler.GetProject(c)

	// Non-members cannot distinguish hidden projects from missing ones.
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_GetProject_OwnerSeesTeams(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Tracker",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.projectService.CreateTeam(services.CreateTeamInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		Name:      "Backend",
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodGet, "/api/projects/"+strconv.FormatUint(project.ID, 10), nil, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(project.ID, 10)}}
	env.handler.GetProject(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ProjectDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleOwner, response.YourRole)
	require.Len(t, response.Teams, 1)
	require.Equal(t, "Backend", response.Teams[0].Name)
}

func TestProjectHandler_UpdateProject_NonOwnerForbidden(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	member := createTestUser(t, env.db, "member@example.com")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Tracker",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	addTestMember(t, env.db, project.ID, member.ID, models.RoleDeveloper)

	body, err := json.Marshal(map[string]string{"name": "Renamed"})
	require.NoError(t, err)

	c, w := testContext(http.MethodPut, "/api/projects/"+strconv.FormatUint(project.ID, 10), body, member.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(project.ID, 10)}}
	env.handler.UpdateProject(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_DeleteProject_RemovesChildren(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	member := createTestUser(t, env.db, "member@example.com")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Doomed",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	team := addTestMember(t, env.db, project.ID, member.ID, models.RoleTester)

	c, w := testContext(http.MethodDelete, "/api/projects/"+strconv.FormatUint(project.ID, 10), nil, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(project.ID, 10)}}
	env.handler.DeleteProject(c)

	require.Equal(t, http.StatusOK, w.Code)

	var teamCount int64
	require.NoError(t, env.db.Model(&models.Team{}).Where("id = ?", team.ID).Count(&teamCount).Error)
	require.Zero(t, teamCount)

	var memberCount int64
	require.NoError(t, env.db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&memberCount).Error)
	require.Zero(t, memberCount)
}

func TestProjectHandler_RemoveMember(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	member := createTestUser(t, env.db, "member@example.com")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Tracker",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	team := addTestMember(t, env.db, project.ID, member.ID, models.RoleDeveloper)

	c, w := testContext(http.MethodDelete, "/x", nil, owner.ID)
	c.Params = gin.Params{
		{Key: "id", Value: strconv.FormatUint(project.ID, 10)},
		{Key: "teamId", Value: strconv.FormatUint(team.ID, 10)},
		{Key: "userId", Value: strconv.FormatUint(member.ID, 10)},
	}
	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, member.ID).
		Count(&count).Error)
	require.Zero(t, count)
}
