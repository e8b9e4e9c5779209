package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

var (
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrInvalidTeamName    = errors.New("team name cannot be empty")
	ErrNotProjectOwner    = errors.New("only the project owner can perform this action")
	ErrMemberNotFound     = errors.New("project member not found")
	ErrCannotRemoveSelf   = errors.New("cannot remove yourself from the project")
)

// ProjectService provides business logic for project and team operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	access      *AccessService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, access *AccessService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		access:      access,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateProject creates a new project owned by the caller.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerUserID: input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ProjectWithRole pairs a project with the caller's resolved role on it.
type ProjectWithRole struct {
	Project models.Project
	Role    models.MemberRole
}

// ListAccessibleProjects returns every project the user owns or is a member
// of, each with the user's resolved role. Clients use the ordering to fall
// back to the first project when a remembered selection no longer resolves.
func (s *ProjectService) ListAccessibleProjects(userID uint64) ([]ProjectWithRole, error) {
	ids, err := s.access.AccessibleProjectIDs(userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	result := make([]ProjectWithRole, 0, len(projects))
	for i := range projects {
		result = append(result, ProjectWithRole{
			Project: projects[i],
			Role:    s.access.ResolveProjectRole(userID, &projects[i]),
		})
	}

	return result, nil
}

// GetProject returns a project with its teams and members, plus the caller's
// role. Non-members get ErrProjectNotFound rather than a forbidden error so
// project existence is not leaked.
func (s *ProjectService) GetProject(projectID, userID uint64) (*models.Project, []models.Team, models.MemberRole, error) {
	project, err := s.access.RequireProject(projectID)
	if err != nil {
		return nil, nil, models.RoleGuest, err
	}

	role := s.access.ResolveProjectRole(userID, project)
	if role == models.RoleGuest {
		return nil, nil, models.RoleGuest, ErrProjectNotFound
	}

	teams, err := s.projectRepo.ListTeams(projectID)
	if err != nil {
		return nil, nil, models.RoleGuest, fmt.Errorf("failed to list teams: %w", err)
	}

	return project, teams, role, nil
}

// UpdateProject updates a project's name and description. Owner only.
func (s *ProjectService) UpdateProject(projectID, actorID uint64, name, description string) (*models.Project, error) {
	project, err := s.access.RequireProject(projectID)
	if err != nil {
		return nil, err
	}

	if s.access.ResolveProjectRole(actorID, project) != models.RoleOwner {
		return nil, ErrNotProjectOwner
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrInvalidProjectName
	}

	project.Name = trimmed
	project.Description = description
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and everything under it. Owner only.
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	project, err := s.access.RequireProject(projectID)
	if err != nil {
		return err
	}

	if s.access.ResolveProjectRole(actorID, project) != models.RoleOwner {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// CreateTeamInput represents parameters to create a team under a project.
type CreateTeamInput struct {
	ProjectID   uint64
	ActorID     uint64
	Name        string
	Description string
}

// CreateTeam creates a team under a project. Owner only.
func (s *ProjectService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	project, err := s.access.RequireProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if s.access.ResolveProjectRole(input.ActorID, project) != models.RoleOwner {
		return nil, ErrNotProjectOwner
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
		ProjectID:   input.ProjectID,
	}

	if err := s.projectRepo.CreateTeam(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListMembers lists all memberships across a project's teams.
func (s *ProjectService) ListMembers(projectID, userID uint64) ([]models.TeamMember, error) {
	project, err := s.access.RequireProject(projectID)
	if err != nil {
		return nil, err
	}

	if s.access.ResolveProjectRole(userID, project) == models.RoleGuest {
		return nil, ErrProjectNotFound
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// RemoveMember removes a member from a team. Owner only, and owners cannot
// remove themselves.
func (s *ProjectService) RemoveMember(projectID, actorID, teamID, targetID uint64) error {
	project, err := s.access.RequireProject(projectID)
	if err != nil {
		return err
	}

	if s.access.ResolveProjectRole(actorID, project) != models.RoleOwner {
		return ErrNotProjectOwner
	}
	if targetID == actorID {
		return ErrCannotRemoveSelf
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	found := false
	for _, m := range members {
		if m.TeamID == teamID && m.UserID == targetID {
			found = true
			break
		}
	}
	if !found {
		return ErrMemberNotFound
	}

	if err := s.projectRepo.RemoveMember(teamID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
