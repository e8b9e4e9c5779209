package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/constants"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

func TestFormatMTTR(t *testing.T) {
	require.Equal(t, "N/A", formatMTTR(nil))
	require.Equal(t, "5h", formatMTTR([]time.Duration{5 * time.Hour}))
	require.Equal(t, "4h", formatMTTR([]time.Duration{3 * time.Hour, 5 * time.Hour}))
	require.Equal(t, "3d", formatMTTR([]time.Duration{72 * time.Hour}))
	require.Equal(t, "2d", formatMTTR([]time.Duration{24 * time.Hour, 72 * time.Hour}))
}

func TestBuildDailySeries(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	bugs := []models.Bug{
		{
			Status:    models.BugStatusOpen,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			Status:    models.BugStatusClosed,
			CreatedAt: now.AddDate(0, 0, -3),
			UpdatedAt: now.AddDate(0, 0, -1),
		},
		{
			// Too old, outside the window entirely.
			Status:    models.BugStatusOpen,
			CreatedAt: now.AddDate(0, 0, -30),
		},
	}

	series := buildDailySeries(bugs, now)
	require.Len(t, series, constants.DashboardSeriesDays)

	require.Equal(t, "2026-03-02", series[0].Date)
	require.Equal(t, "2026-03-15", series[len(series)-1].Date)

	byDate := make(map[string]SeriesPoint)
	for _, p := range series {
		byDate[p.Date] = p
	}

	require.Equal(t, 1, byDate["2026-03-15"].Opened)
	require.Equal(t, 1, byDate["2026-03-12"].Opened)
	require.Equal(t, 1, byDate["2026-03-14"].Closed)
	require.Equal(t, 0, byDate["2026-03-02"].Opened)
}

func TestBuildDailySeries_BucketsInUTC(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// 23:30 UTC on the 14th expressed in a +09:00 zone, which would read as
	// the 15th in local time.
	jst := time.FixedZone("JST", 9*3600)
	bugs := []models.Bug{
		{
			Status:    models.BugStatusOpen,
			CreatedAt: time.Date(2026, 3, 15, 8, 30, 0, 0, jst),
		},
	}

	series := buildDailySeries(bugs, now)
	byDate := make(map[string]SeriesPoint)
	for _, p := range series {
		byDate[p.Date] = p
	}

	require.Equal(t, 1, byDate["2026-03-14"].Opened)
	require.Equal(t, 0, byDate["2026-03-15"].Opened)
}

func TestBuildTableRows(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	bugs := []models.Bug{
		{ID: 7, Title: "Crash", Status: models.BugStatusOpen, Severity: models.SeverityHigh, ProjectID: 1, CreatedAt: base},
	}
	todos := []models.Todo{
		{ID: 7, Title: "Write docs", Completed: true, ProjectID: 1, CreatedAt: base.Add(time.Hour)},
	}

	rows := buildTableRows(bugs, todos)
	require.Len(t, rows, 2)

	// Newest first, and todo ids are offset away from bug ids.
	require.Equal(t, "todo", rows[0].Type)
	require.Equal(t, uint64(7+constants.TodoTableIDOffset), rows[0].ID)
	require.Equal(t, "Completed", rows[0].Status)

	require.Equal(t, "bug", rows[1].Type)
	require.Equal(t, uint64(7), rows[1].ID)
	require.Equal(t, "High", rows[1].Severity)
}

func TestComputeMetrics(t *testing.T) {
	now := time.Now()
	bugs := []models.Bug{
		{Status: models.BugStatusOpen, Severity: models.SeverityLow},
		{Status: models.BugStatusInProgress, Severity: models.SeverityHigh},
		{Status: models.BugStatusClosed, Severity: models.SeverityHigh, CreatedAt: now.Add(-6 * time.Hour), UpdatedAt: now},
	}
	todos := []models.Todo{
		{Completed: true},
		{Completed: false},
	}

	metrics := computeMetrics(bugs, todos)
	require.Equal(t, 3, metrics.TotalBugs)
	require.Equal(t, 1, metrics.OpenBugs)
	require.Equal(t, 1, metrics.InProgressBugs)
	require.Equal(t, 1, metrics.ClosedBugs)
	require.Equal(t, 2, metrics.SeverityCounts["High"])
	require.Equal(t, 1, metrics.SeverityCounts["Low"])
	require.Equal(t, 2, metrics.TotalTodos)
	require.Equal(t, 1, metrics.CompletedTodos)
	require.Equal(t, "6h", metrics.MTTR)
}

func setupDashboardTestDB(t *testing.T) (*gorm.DB, *DashboardService) {
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	access := NewAccessService(repository.NewProjectRepository(db))
	service := NewDashboardService(
		repository.NewBugRepository(db),
		repository.NewTodoRepository(db),
		access,
	)
	return db, service
}

func TestDashboardCompute_AllProjects(t *testing.T) {
	db, service := setupDashboardTestDB(t)

	user := models.User{Email: "user@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	first := models.Project{Name: "First", OwnerUserID: user.ID}
	second := models.Project{Name: "Second", OwnerUserID: user.ID}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, db.Create(&models.Bug{
		Title: "One", Status: models.BugStatusOpen, Severity: models.SeverityLow,
		ProjectID: first.ID, UserID: user.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Bug{
		Title: "Two", Status: models.BugStatusClosed, Severity: models.SeverityHigh,
		ProjectID: second.ID, UserID: user.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Todo{
		Title: "Task", Completed: true, ProjectID: first.ID, UserID: user.ID,
	}).Error)

	dashboard, err := service.Compute(user.ID, ScopeAll())
	require.NoError(t, err)

	require.Equal(t, 2, dashboard.Metrics.TotalBugs)
	require.Equal(t, 1, dashboard.Metrics.OpenBugs)
	require.Equal(t, 1, dashboard.Metrics.ClosedBugs)
	require.Equal(t, 1, dashboard.Metrics.TotalTodos)
	require.Equal(t, 1, dashboard.Metrics.CompletedTodos)
	require.Equal(t, 2, dashboard.Metrics.AccessibleProjectCount)
	require.Len(t, dashboard.ChartSeries, constants.DashboardSeriesDays)
	require.Len(t, dashboard.TableRows, 3)
}

func TestDashboardCompute_SingleProjectExcludesOthers(t *testing.T) {
	db, service := setupDashboardTestDB(t)

	user := models.User{Email: "user@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	mine := models.Project{Name: "Mine", OwnerUserID: user.ID}
	other := models.Project{Name: "Other", OwnerUserID: user.ID}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, db.Create(&models.Bug{
		Title: "In scope", Status: models.BugStatusOpen, Severity: models.SeverityLow,
		ProjectID: mine.ID, UserID: user.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Bug{
		Title: "Out of scope", Status: models.BugStatusOpen, Severity: models.SeverityLow,
		ProjectID: other.ID, UserID: user.ID,
	}).Error)

	dashboard, err := service.Compute(user.ID, ScopeProject(mine.ID))
	require.NoError(t, err)

	require.Equal(t, 1, dashboard.Metrics.TotalBugs)
	require.Equal(t, 1, dashboard.Metrics.AccessibleProjectCount)
}

func TestDashboardCompute_EmptyScopeIsValidData(t *testing.T) {
	db, service := setupDashboardTestDB(t)

	user := models.User{Email: "user@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	dashboard, err := service.Compute(user.ID, ScopeAll())
	require.NoError(t, err)

	require.Zero(t, dashboard.Metrics.TotalBugs)
	require.Equal(t, "N/A", dashboard.Metrics.MTTR)
	require.Zero(t, dashboard.Metrics.AccessibleProjectCount)
	require.Empty(t, dashboard.TableRows)
	require.Len(t, dashboard.ChartSeries, constants.DashboardSeriesDays)
}

func TestDashboardCompute_InaccessibleProjectIsNotFound(t *testing.T) {
	db, service := setupDashboardTestDB(t)

	owner := models.User{Email: "owner@example.com", PasswordHash: "x"}
	stranger := models.User{Email: "stranger@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&stranger).Error)

	project := models.Project{Name: "Private", OwnerUserID: owner.ID}
	require.NoError(t, db.Create(&project).Error)

	_, err := service.Compute(stranger.ID, ScopeProject(project.ID))
	require.True(t, errors.Is(err, ErrProjectNotFound))
}
