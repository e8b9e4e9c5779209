package repository

import (
	"github.com/yukikurage/bugtracker-api/internal/database"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormBugRepository is a GORM implementation of BugRepository
type GormBugRepository struct {
	db *gorm.DB
}

// NewBugRepository creates a new BugRepository
func NewBugRepository(db *gorm.DB) BugRepository {
	return &GormBugRepository{db: db}
}

// Create creates a new bug
func (r *GormBugRepository) Create(bug *models.Bug) error {
	return r.db.Create(bug).Error
}

// FindByID finds a bug by ID
func (r *GormBugRepository) FindByID(id uint64) (*models.Bug, error) {
	var bug models.Bug
	if err := r.db.Preload("Reporter").
		Preload("Assignee").
		First(&bug, id).Error; err != nil {
		return nil, err
	}
	return &bug, nil
}

// List retrieves bugs visible to a user with filtering and pagination
func (r *GormBugRepository) List(filter BugFilter) ([]models.Bug, int64, error) {
	var bugs []models.Bug

	query := r.db.Model(&models.Bug{}).
		Where("user_id = ? OR assignee_id = ?", filter.UserID, filter.UserID)

	if len(filter.ProjectIDs) > 0 {
		query = query.Where("project_id IN ?", filter.ProjectIDs)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Reporter").Find(&bugs).Error; err != nil {
		return nil, 0, err
	}

	return bugs, total, nil
}

// ListScoped returns all bugs in the project set where the user is reporter
// or assignee, in one batched query keyed on the project-id set.
func (r *GormBugRepository) ListScoped(projectIDs []uint64, userID uint64) ([]models.Bug, error) {
	if len(projectIDs) == 0 {
		return []models.Bug{}, nil
	}

	var bugs []models.Bug
	if err := r.db.
		Where("project_id IN ?", projectIDs).
		Where("user_id = ? OR assignee_id = ?", userID, userID).
		Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// Update updates a bug
func (r *GormBugRepository) Update(bug *models.Bug) error {
	return r.db.Save(bug).Error
}

// Delete soft deletes a bug
func (r *GormBugRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Bug{}, id).Error
}
