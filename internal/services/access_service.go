package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/logger"
	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectScope is the tagged variant for dashboard and listing scope: either
// a single project or every project the user can access. It is decided once
// at the HTTP boundary; nothing below the handlers compares query-string
// sentinels.
type ProjectScope struct {
	all       bool
	projectID uint64
}

// ScopeAll returns the all-projects scope.
func ScopeAll() ProjectScope {
	return ProjectScope{all: true}
}

// ScopeProject returns a single-project scope.
func ScopeProject(id uint64) ProjectScope {
	return ProjectScope{projectID: id}
}

// All reports whether the scope spans every accessible project.
func (s ProjectScope) All() bool {
	return s.all
}

// ProjectID returns the project ID of a single-project scope.
func (s ProjectScope) ProjectID() uint64 {
	return s.projectID
}

// AccessService is the single place role decisions are made. Every handler
// and service that needs an owner/member/guest answer asks here.
type AccessService struct {
	projectRepo repository.ProjectRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(projectRepo repository.ProjectRepository) *AccessService {
	return &AccessService{
		projectRepo: projectRepo,
	}
}

// ResolveRole determines a user's role for a scope. The all-projects scope
// always resolves to owner: the aggregate view only ever spans the user's
// own accessible projects. Query failures resolve to guest, never to a
// privileged role.
func (s *AccessService) ResolveRole(userID uint64, scope ProjectScope) models.MemberRole {
	if scope.All() {
		return models.RoleOwner
	}

	project, err := s.projectRepo.FindByID(scope.ProjectID())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error().Err(err).
				Uint64("user_id", userID).
				Uint64("project_id", scope.ProjectID()).
				Msg("role resolution failed, defaulting to guest")
		}
		return models.RoleGuest
	}

	return s.resolveProjectRole(userID, project)
}

// ResolveProjectRole resolves the role for an already-loaded project row.
func (s *AccessService) ResolveProjectRole(userID uint64, project *models.Project) models.MemberRole {
	return s.resolveProjectRole(userID, project)
}

func (s *AccessService) resolveProjectRole(userID uint64, project *models.Project) models.MemberRole {
	if project.OwnerUserID == userID {
		return models.RoleOwner
	}

	// One batched lookup across every team the user belongs to, then match
	// on project. The membership uniqueness invariant makes duplicates
	// impossible in practice; if one slips in anyway, the highest privilege
	// wins so the answer stays deterministic.
	memberships, err := s.projectRepo.ListMembershipsByUserID(userID)
	if err != nil {
		logger.Error().Err(err).
			Uint64("user_id", userID).
			Uint64("project_id", project.ID).
			Msg("membership lookup failed, defaulting to guest")
		return models.RoleGuest
	}

	role := models.RoleGuest
	for _, m := range memberships {
		if m.Team.ProjectID != project.ID {
			continue
		}
		if m.Role.Privilege() > role.Privilege() {
			role = m.Role
		}
	}

	return role
}

// AccessibleProjectIDs returns the deduplicated set of project IDs the user
// owns or is a member of.
func (s *AccessService) AccessibleProjectIDs(userID uint64) ([]uint64, error) {
	owned, err := s.projectRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}

	memberships, err := s.projectRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	seen := make(map[uint64]struct{}, len(owned)+len(memberships))
	ids := make([]uint64, 0, len(owned)+len(memberships))

	for _, p := range owned {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	for _, m := range memberships {
		if _, ok := seen[m.Team.ProjectID]; ok {
			continue
		}
		seen[m.Team.ProjectID] = struct{}{}
		ids = append(ids, m.Team.ProjectID)
	}

	return ids, nil
}

// RequireProject loads a project or reports ErrProjectNotFound.
func (s *AccessService) RequireProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
