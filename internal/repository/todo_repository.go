package repository

import (
	"github.com/yukikurage/bugtracker-api/internal/database"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindByID finds a todo by ID
func (r *GormTodoRepository) FindByID(id uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// List retrieves the user's todos with pagination
func (r *GormTodoRepository) List(userID uint64, projectID *uint64, page, pageSize int) ([]models.Todo, int64, error) {
	var todos []models.Todo

	query := r.db.Model(&models.Todo{}).Where("user_id = ?", userID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   page,
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	if err := listQuery.Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// ListScoped returns all todos owned by the user in the project set
func (r *GormTodoRepository) ListScoped(projectIDs []uint64, userID uint64) ([]models.Todo, error) {
	if len(projectIDs) == 0 {
		return []models.Todo{}, nil
	}

	var todos []models.Todo
	if err := r.db.
		Where("project_id IN ?", projectIDs).
		Where("user_id = ?", userID).
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// Update updates a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// Delete soft deletes a todo
func (r *GormTodoRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Todo{}, id).Error
}
