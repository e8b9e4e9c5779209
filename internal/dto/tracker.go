package dto

import (
	"time"

	"github.com/yukikurage/bugtracker-api/internal/models"
)

// BugDTO represents a bug in API responses
type BugDTO struct {
	ID          uint64             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      models.BugStatus   `json:"status"`
	Severity    models.BugSeverity `json:"severity"`
	ProjectID   uint64             `json:"project_id"`
	ReporterID  uint64             `json:"reporter_id"`
	AssigneeID  *uint64            `json:"assignee_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// BugListResponse represents a paginated list of bugs
type BugListResponse struct {
	Bugs       []BugDTO `json:"bugs"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalCount int64    `json:"total_count"`
}

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   uint64     `json:"project_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoListResponse represents a paginated list of todos
type TodoListResponse struct {
	Todos      []TodoDTO `json:"todos"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToBugDTO converts a bug to DTO
func ToBugDTO(bug models.Bug) BugDTO {
	return BugDTO{
		ID:          bug.ID,
		Title:       bug.Title,
		Description: bug.Description,
		Status:      bug.Status,
		Severity:    bug.Severity,
		ProjectID:   bug.ProjectID,
		ReporterID:  bug.UserID,
		AssigneeID:  bug.AssigneeID,
		CreatedAt:   bug.CreatedAt,
		UpdatedAt:   bug.UpdatedAt,
	}
}

// ToBugDTOs converts a slice of bugs to DTOs
func ToBugDTOs(bugs []models.Bug) []BugDTO {
	dtos := make([]BugDTO, len(bugs))
	for i, bug := range bugs {
		dtos[i] = ToBugDTO(bug)
	}
	return dtos
}

// ToTodoDTO converts a todo to DTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		DueDate:     todo.DueDate,
		ProjectID:   todo.ProjectID,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoDTOs converts a slice of todos to DTOs
func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	dtos := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		dtos[i] = ToTodoDTO(todo)
	}
	return dtos
}
