package repository

import (
	"github.com/yukikurage/bugtracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDs finds projects by a set of IDs
func (r *GormProjectRepository) FindByIDs(ids []uint64) ([]models.Project, error) {
	if len(ids) == 0 {
		return []models.Project{}, nil
	}

	var projects []models.Project
	if err := r.db.Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByOwner lists projects owned by a user
func (r *GormProjectRepository) ListByOwner(ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all dependent rows in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var teamIDs []uint64
		if err := tx.Model(&models.Team{}).
			Where("project_id = ?", id).
			Pluck("id", &teamIDs).Error; err != nil {
			return err
		}

		if len(teamIDs) > 0 {
			if err := tx.Where("team_id IN ?", teamIDs).Delete(&models.TeamMember{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Team{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Bug{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Todo{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// CreateTeam creates a team under a project
func (r *GormProjectRepository) CreateTeam(team *models.Team) error {
	return r.db.Create(team).Error
}

// ListTeams lists all teams of a project
func (r *GormProjectRepository) ListTeams(projectID uint64) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Preload("Members").
		Preload("Members.User").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// ListMembershipsByUserID lists every team membership a user holds
func (r *GormProjectRepository) ListMembershipsByUserID(userID uint64) ([]models.TeamMember, error) {
	var memberships []models.TeamMember
	if err := r.db.Preload("Team").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all memberships across a project's teams
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Preload("Team").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.project_id = ? AND teams.deleted_at IS NULL", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMember removes a user from a team
func (r *GormProjectRepository) RemoveMember(teamID, userID uint64) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}
