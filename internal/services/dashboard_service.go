package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yukikurage/bugtracker-api/internal/constants"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

// DashboardMetrics are the headline numbers for a scope.
type DashboardMetrics struct {
	TotalBugs              int            `json:"total_bugs"`
	OpenBugs               int            `json:"open_bugs"`
	InProgressBugs         int            `json:"in_progress_bugs"`
	ClosedBugs             int            `json:"closed_bugs"`
	SeverityCounts         map[string]int `json:"severity_counts"`
	TotalTodos             int            `json:"total_todos"`
	CompletedTodos         int            `json:"completed_todos"`
	MTTR                   string         `json:"mttr"`
	AccessibleProjectCount int            `json:"accessible_project_count"`
}

// SeriesPoint is one day of the opened/closed chart. Date is a UTC calendar
// day in YYYY-MM-DD form; both ends of the system bucket on the same key.
type SeriesPoint struct {
	Date   string `json:"date"`
	Opened int    `json:"opened"`
	Closed int    `json:"closed"`
}

// TableRow is one row of the combined bugs+todos table. Todo ids are offset
// so they never collide with bug ids in the flattened view.
type TableRow struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Severity  string    `json:"severity,omitempty"`
	ProjectID uint64    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard is the full aggregation result for a scope.
type Dashboard struct {
	Metrics     DashboardMetrics `json:"metrics"`
	ChartSeries []SeriesPoint    `json:"chart_series"`
	TableRows   []TableRow       `json:"table_rows"`
}

// DashboardService aggregates bugs and todos into dashboard metrics for a
// single project or for every project the user can access. The all-projects
// mode runs one batched query keyed on the project-id set, never a query per
// project.
type DashboardService struct {
	bugRepo  repository.BugRepository
	todoRepo repository.TodoRepository
	access   *AccessService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(bugRepo repository.BugRepository, todoRepo repository.TodoRepository, access *AccessService) *DashboardService {
	return &DashboardService{
		bugRepo:  bugRepo,
		todoRepo: todoRepo,
		access:   access,
	}
}

// Compute builds the dashboard for a scope. Zero matching rows is valid data
// (zero metrics, MTTR "N/A"); a failed query is an explicit error, never a
// silent empty dashboard.
func (s *DashboardService) Compute(userID uint64, scope ProjectScope) (*Dashboard, error) {
	var projectIDs []uint64

	if scope.All() {
		ids, err := s.access.AccessibleProjectIDs(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve accessible projects: %w", err)
		}
		projectIDs = ids
	} else {
		if s.access.ResolveRole(userID, scope) == models.RoleGuest {
			return nil, ErrProjectNotFound
		}
		projectIDs = []uint64{scope.ProjectID()}
	}

	bugs, err := s.bugRepo.ListScoped(projectIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bugs: %w", err)
	}

	todos, err := s.todoRepo.ListScoped(projectIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}

	metrics := computeMetrics(bugs, todos)
	metrics.AccessibleProjectCount = len(projectIDs)

	return &Dashboard{
		Metrics:     metrics,
		ChartSeries: buildDailySeries(bugs, time.Now().UTC()),
		TableRows:   buildTableRows(bugs, todos),
	}, nil
}

func computeMetrics(bugs []models.Bug, todos []models.Todo) DashboardMetrics {
	metrics := DashboardMetrics{
		TotalBugs:      len(bugs),
		SeverityCounts: make(map[string]int),
		TotalTodos:     len(todos),
	}

	var closedDurations []time.Duration
	for _, bug := range bugs {
		switch bug.Status {
		case models.BugStatusOpen:
			metrics.OpenBugs++
		case models.BugStatusInProgress:
			metrics.InProgressBugs++
		case models.BugStatusClosed:
			metrics.ClosedBugs++
			closedDurations = append(closedDurations, bug.UpdatedAt.Sub(bug.CreatedAt))
		}
		metrics.SeverityCounts[string(bug.Severity)]++
	}

	for _, todo := range todos {
		if todo.Completed {
			metrics.CompletedTodos++
		}
	}

	metrics.MTTR = formatMTTR(closedDurations)
	return metrics
}

// formatMTTR renders the mean resolution time of closed bugs as hours below
// one day and as days above, rounded. No closed bugs yields "N/A".
func formatMTTR(durations []time.Duration) string {
	if len(durations) == 0 {
		return "N/A"
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	mean := total / time.Duration(len(durations))

	hours := mean.Hours()
	if hours < 24 {
		return fmt.Sprintf("%dh", int(math.Round(hours)))
	}
	return fmt.Sprintf("%dd", int(math.Round(hours/24)))
}

// buildDailySeries buckets bug activity into UTC calendar days: opened by
// created_at, closed by updated_at of Closed bugs.
func buildDailySeries(bugs []models.Bug, now time.Time) []SeriesPoint {
	const dayFormat = "2006-01-02"

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(constants.DashboardSeriesDays - 1))

	index := make(map[string]int, constants.DashboardSeriesDays)
	series := make([]SeriesPoint, constants.DashboardSeriesDays)
	for i := 0; i < constants.DashboardSeriesDays; i++ {
		date := start.AddDate(0, 0, i).Format(dayFormat)
		series[i] = SeriesPoint{Date: date}
		index[date] = i
	}

	for _, bug := range bugs {
		opened := bug.CreatedAt.UTC().Format(dayFormat)
		if i, ok := index[opened]; ok {
			series[i].Opened++
		}
		if bug.Status == models.BugStatusClosed {
			closed := bug.UpdatedAt.UTC().Format(dayFormat)
			if i, ok := index[closed]; ok {
				series[i].Closed++
			}
		}
	}

	return series
}

// buildTableRows flattens bugs and todos into one table, newest first.
func buildTableRows(bugs []models.Bug, todos []models.Todo) []TableRow {
	rows := make([]TableRow, 0, len(bugs)+len(todos))

	for _, bug := range bugs {
		rows = append(rows, TableRow{
			ID:        bug.ID,
			Type:      "bug",
			Title:     bug.Title,
			Status:    string(bug.Status),
			Severity:  string(bug.Severity),
			ProjectID: bug.ProjectID,
			CreatedAt: bug.CreatedAt,
		})
	}

	for _, todo := range todos {
		status := "Open"
		if todo.Completed {
			status = "Completed"
		}
		rows = append(rows, TableRow{
			ID:        todo.ID + constants.TodoTableIDOffset,
			Type:      "todo",
			Title:     todo.Title,
			Status:    status,
			ProjectID: todo.ProjectID,
			CreatedAt: todo.CreatedAt,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	return rows
}
