package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrTodoTitleRequired = errors.New("todo title is required")
)

// TodoService handles todo business logic. Todos are strictly caller-owned:
// every read and write is keyed on the owner's user id.
type TodoService struct {
	todoRepo repository.TodoRepository
	access   *AccessService
}

// NewTodoService creates a new TodoService.
func NewTodoService(todoRepo repository.TodoRepository, access *AccessService) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		access:   access,
	}
}

// ListTodos returns the user's todos, optionally restricted to one project.
func (s *TodoService) ListTodos(userID uint64, projectID *uint64, page, pageSize int) ([]models.Todo, int64, error) {
	if projectID != nil {
		if s.access.ResolveRole(userID, ScopeProject(*projectID)) == models.RoleGuest {
			return nil, 0, ErrProjectNotFound
		}
	}

	todos, total, err := s.todoRepo.List(userID, projectID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

// CreateTodoInput represents input for creating a todo.
type CreateTodoInput struct {
	Title       string
	Description string
	ProjectID   uint64
	UserID      uint64
	DueDate     *time.Time
}

// CreateTodo creates a todo owned by the caller on a project they can access.
func (s *TodoService) CreateTodo(input CreateTodoInput) (*models.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTodoTitleRequired
	}

	if s.access.ResolveRole(input.UserID, ScopeProject(input.ProjectID)) == models.RoleGuest {
		return nil, ErrProjectNotFound
	}

	todo := &models.Todo{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ProjectID:   input.ProjectID,
		UserID:      input.UserID,
		DueDate:     input.DueDate,
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// GetTodo returns a todo owned by the user. Any other todo reads as not-found.
func (s *TodoService) GetTodo(todoID, userID uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if todo.UserID != userID {
		return nil, ErrTodoNotFound
	}

	return todo, nil
}

// UpdateTodoInput represents input for updating a todo.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// UpdateTodo updates a todo. Owner only.
func (s *TodoService) UpdateTodo(todoID, userID uint64, input UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.GetTodo(todoID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTodoTitleRequired
		}
		todo.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// DeleteTodo deletes a todo. Owner only.
func (s *TodoService) DeleteTodo(todoID, userID uint64) error {
	if _, err := s.GetTodo(todoID, userID); err != nil {
		return err
	}

	if err := s.todoRepo.Delete(todoID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}
