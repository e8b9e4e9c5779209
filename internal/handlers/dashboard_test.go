package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/database"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

type dashboardTestEnv struct {
	db      *gorm.DB
	handler *DashboardHandler
}

func setupDashboardTestEnv(t *testing.T) dashboardTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Team{},
		&models.TeamMember{},
		&models.Bug{},
		&models.Todo{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	projectRepo := repository.NewProjectRepository(db)
	accessService := services.NewAccessService(projectRepo)
	dashboardService := services.NewDashboardService(
		repository.NewBugRepository(db),
		repository.NewTodoRepository(db),
		accessService,
	)
	handler := NewDashboardHandler(dashboardService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return dashboardTestEnv{db: db, handler: handler}
}

func seedDashboardData(t *testing.T, db *gorm.DB) (*models.User, *models.Project) {
	t.Helper()

	user := createTestUser(t, db, "user@example.com")
	project := &models.Project{Name: "Tracker", OwnerUserID: user.ID}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Create(&models.Bug{
		Title:     "Open bug",
		Status:    models.BugStatusOpen,
		Severity:  models.SeverityLow,
		ProjectID: project.ID,
		UserID:    user.ID,
	}).Error)
	return user, project
}

func TestDashboardHandler_MissingProjectIDMeansAllProjects(t *testing.T) {
	env := setupDashboardTestEnv(t)
	user, _ := seedDashboardData(t, env.db)

	// The literal strings clients send when no project is selected all
	// resolve to the all-projects scope.
	for _, query := range []string{"", "?projectId=null", "?projectId=undefined"} {
		c, w := testContext(http.MethodGet, "/api/dashboard"+query, nil, user.ID)
		env.handler.Get(c)

		require.Equal(t, http.StatusOK, w.Code, "query %q", query)

		var response services.Dashboard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, 1, response.Metrics.TotalBugs, "query %q", query)
		require.Equal(t, 1, response.Metrics.AccessibleProjectCount, "query %q", query)
	}
}

func TestDashboardHandler_SingleProjectScope(t *testing.T) {
	env := setupDashboardTestEnv(t)
	user, project := seedDashboardData(t, env.db)

	c, w := testContext(http.MethodGet, "/api/dashboard?projectId="+strconv.FormatUint(project.ID, 10), nil, user.ID)
	env.handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response services.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Metrics.TotalBugs)
	require.Equal(t, 1, response.Metrics.AccessibleProjectCount)
}

func TestDashboardHandler_MalformedProjectIDIsBadRequest(t *testing.T) {
	env := setupDashboardTestEnv(t)
	user, _ := seedDashboardData(t, env.db)

	c, w := testContext(http.MethodGet, "/api/dashboard?projectId=abc", nil, user.ID)
	env.handler.Get(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_InaccessibleProjectIsNotFound(t *testing.T) {
	env := setupDashboardTestEnv(t)
	_, project := seedDashboardData(t, env.db)
	stranger := createTestUser(t, env.db, "stranger@example.com")

	c, w := testContext(http.MethodGet, "/api/dashboard?projectId="+strconv.FormatUint(project.ID, 10), nil, stranger.ID)
	env.handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
