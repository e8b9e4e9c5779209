package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyRole    = "project_role"
)

// Session
const (
	SessionCookieName = "bugtracker_session"
)

// Validation
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invitations
const (
	// DefaultInvitationTTLDays is used when INVITATION_TTL_DAYS is not set.
	DefaultInvitationTTLDays = 7

	// DefaultTeamName is the team auto-created when an invitation is
	// accepted on a project that has no team yet.
	DefaultTeamName = "General"
)

// Dashboard
const (
	// DashboardSeriesDays is the length of the opened/closed time series.
	DashboardSeriesDays = 14

	// TodoTableIDOffset keeps todo ids from colliding with bug ids in the
	// combined dashboard table.
	TodoTableIDOffset = 10000
)

// AI
const (
	MaxAISuggestedTodos = 20
)
