package repository

import (
	"time"

	"github.com/yukikurage/bugtracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project, team, and membership
// data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByIDs finds projects by a set of IDs
	FindByIDs(ids []uint64) ([]models.Project, error)

	// ListByOwner lists projects owned by a user
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all dependent rows in a transaction
	Delete(id uint64) error

	// CreateTeam creates a team under a project
	CreateTeam(team *models.Team) error

	// ListTeams lists all teams of a project
	ListTeams(projectID uint64) ([]models.Team, error)

	// ListMembershipsByUserID lists every team membership a user holds,
	// with the owning team preloaded. This is the single batched lookup
	// role resolution runs on.
	ListMembershipsByUserID(userID uint64) ([]models.TeamMember, error)

	// ListMembers lists all memberships across a project's teams
	ListMembers(projectID uint64) ([]models.TeamMember, error)

	// RemoveMember removes a user from a team
	RemoveMember(teamID, userID uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create persists a new invitation
	Create(invitation *models.Invitation) error

	// FindByID finds an invitation with project and inviter preloaded
	FindByID(id uint64) (*models.Invitation, error)

	// FindPending finds a pending, unexpired invitation for an email on a
	// project
	FindPending(email string, projectID uint64, now time.Time) (*models.Invitation, error)

	// ListPendingByEmail lists pending, unexpired invitations addressed to
	// an email, with project and inviter preloaded
	ListPendingByEmail(email string, now time.Time) ([]models.Invitation, error)

	// Accept transitions pending -> accepted and creates the membership in
	// one transaction. Returns ErrInvitationNotPending when the guarded
	// update matches no row.
	Accept(invitationID, userID uint64, now time.Time) (*models.TeamMember, error)

	// Decline transitions pending -> declined with the same guard
	Decline(invitationID uint64, now time.Time) error

	// Delete removes an invitation
	Delete(id uint64) error
}

// BugFilter holds filtering options for listing bugs
type BugFilter struct {
	ProjectIDs []uint64
	UserID     uint64
	Status     *models.BugStatus
	Page       int
	PageSize   int
}

// BugRepository defines the interface for bug data access
type BugRepository interface {
	// Create creates a new bug
	Create(bug *models.Bug) error

	// FindByID finds a bug by ID
	FindByID(id uint64) (*models.Bug, error)

	// List retrieves bugs visible to a user (reporter or assignee) with
	// filtering and pagination
	List(filter BugFilter) ([]models.Bug, int64, error)

	// ListScoped returns all bugs in the project set where the user is
	// reporter or assignee, in one batched query
	ListScoped(projectIDs []uint64, userID uint64) ([]models.Bug, error)

	// Update updates a bug
	Update(bug *models.Bug) error

	// Delete soft deletes a bug
	Delete(id uint64) error
}

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindByID finds a todo by ID
	FindByID(id uint64) (*models.Todo, error)

	// List retrieves the user's todos with pagination
	List(userID uint64, projectID *uint64, page, pageSize int) ([]models.Todo, int64, error)

	// ListScoped returns all todos owned by the user in the project set
	ListScoped(projectIDs []uint64, userID uint64) ([]models.Todo, error)

	// Update updates a todo
	Update(todo *models.Todo) error

	// Delete soft deletes a todo
	Delete(id uint64) error
}
