package dto

import (
	"time"

	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerUserID uint64    `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectWithRoleDTO represents a project with the caller's resolved role
type ProjectWithRoleDTO struct {
	ProjectDTO
	Role models.MemberRole `json:"role"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProjectID   uint64    `json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamMemberDTO represents a membership across a project's teams
type TeamMemberDTO struct {
	TeamID   uint64            `json:"team_id"`
	TeamName string            `json:"team_name"`
	User     UserDTO           `json:"user"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

// ProjectDetailDTO represents a project with its teams and the caller's role
type ProjectDetailDTO struct {
	ProjectDTO
	Teams    []TeamDTO         `json:"teams"`
	YourRole models.MemberRole `json:"your_role"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToProjectDTO converts a project to DTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerUserID: project.OwnerUserID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectWithRoleDTO converts a project plus resolved role to DTO
func ToProjectWithRoleDTO(p services.ProjectWithRole) ProjectWithRoleDTO {
	return ProjectWithRoleDTO{
		ProjectDTO: ToProjectDTO(p.Project),
		Role:       p.Role,
	}
}

// ToTeamDTO converts a team to DTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		ProjectID:   team.ProjectID,
		CreatedAt:   team.CreatedAt,
	}
}

// ToTeamMemberDTO converts a membership to DTO
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		TeamID:   member.TeamID,
		TeamName: member.Team.Name,
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectDetailDTO converts a project with teams to a detailed DTO
func ToProjectDetailDTO(project models.Project, teams []models.Team, yourRole models.MemberRole) ProjectDetailDTO {
	teamDTOs := make([]TeamDTO, len(teams))
	for i, team := range teams {
		teamDTOs[i] = ToTeamDTO(team)
	}

	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Teams:      teamDTOs,
		YourRole:   yourRole,
	}
}
