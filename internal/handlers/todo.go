package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/bugtracker-api/internal/dto"
	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
	"github.com/yukikurage/bugtracker-api/internal/middleware"
	"github.com/yukikurage/bugtracker-api/internal/services"
	"github.com/yukikurage/bugtracker-api/internal/utils"
)

// TodoHandler coordinates todo HTTP handlers.
type TodoHandler struct {
	todoService *services.TodoService
	aiService   *services.AIService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService *services.TodoService, aiService *services.AIService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		aiService:   aiService,
	}
}

// List returns the caller's todos.
func (h *TodoHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	projectID, ok := parseOptionalProjectID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	todos, total, err := h.todoService.ListTodos(userID, projectID, params.Page, params.Limit)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TodoListResponse{
		Todos:      dto.ToTodoDTOs(todos),
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
	})
}

// Create creates a todo owned by the caller.
func (h *TodoHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateTodoRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		ProjectID   uint64     `json:"project_id" binding:"required"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.todoService.CreateTodo(services.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		UserID:      userID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// Get returns one of the caller's todos.
func (h *TodoHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	todoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(todoID, userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// Update updates one of the caller's todos.
func (h *TodoHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	todoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTodoRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Completed   *bool      `json:"completed"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.todoService.UpdateTodo(todoID, userID, services.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// Delete removes one of the caller's todos.
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	todoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(todoID, userID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

// Suggest extracts todo suggestions from free-form text. Returns 503 when
// the AI integration is not configured.
func (h *TodoHandler) Suggest(c *gin.Context) {
	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	todos, err := h.aiService.SuggestTodos(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrAINotConfigured) {
			apierrors.ServiceUnavailable(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to generate suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": todos})
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTodoTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
