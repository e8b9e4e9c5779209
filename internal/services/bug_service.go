package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

var (
	ErrBugNotFound      = errors.New("bug not found")
	ErrBugTitleRequired = errors.New("bug title is required")
	ErrInvalidBugStatus = errors.New("invalid bug status")
)

// BugService handles bug business logic. Bug rows are caller-owned: listing
// covers rows where the caller is reporter or assignee, mutation requires
// the caller to be the reporter.
type BugService struct {
	bugRepo repository.BugRepository
	access  *AccessService
}

// NewBugService creates a new BugService.
func NewBugService(bugRepo repository.BugRepository, access *AccessService) *BugService {
	return &BugService{
		bugRepo: bugRepo,
		access:  access,
	}
}

// ListBugsInput represents filters for listing bugs.
type ListBugsInput struct {
	UserID    uint64
	ProjectID *uint64
	Status    *models.BugStatus
	Page      int
	PageSize  int
}

// ListBugs returns bugs where the user is reporter or assignee.
func (s *BugService) ListBugs(input ListBugsInput) ([]models.Bug, int64, error) {
	filter := repository.BugFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.ProjectID != nil {
		if s.access.ResolveRole(input.UserID, ScopeProject(*input.ProjectID)) == models.RoleGuest {
			return nil, 0, ErrProjectNotFound
		}
		filter.ProjectIDs = []uint64{*input.ProjectID}
	}

	bugs, total, err := s.bugRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bugs: %w", err)
	}

	return bugs, total, nil
}

// CreateBugInput represents input for creating a bug.
type CreateBugInput struct {
	Title       string
	Description string
	Severity    models.BugSeverity
	ProjectID   uint64
	ReporterID  uint64
	AssigneeID  *uint64
}

// CreateBug files a bug on a project the caller can access. The reporter is
// always the caller, never taken from the request body.
func (s *BugService) CreateBug(input CreateBugInput) (*models.Bug, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrBugTitleRequired
	}

	if s.access.ResolveRole(input.ReporterID, ScopeProject(input.ProjectID)) == models.RoleGuest {
		return nil, ErrProjectNotFound
	}

	if input.Severity == "" {
		input.Severity = models.SeverityMedium
	}

	bug := &models.Bug{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      models.BugStatusOpen,
		Severity:    input.Severity,
		ProjectID:   input.ProjectID,
		UserID:      input.ReporterID,
		AssigneeID:  input.AssigneeID,
	}

	if err := s.bugRepo.Create(bug); err != nil {
		return nil, fmt.Errorf("failed to create bug: %w", err)
	}

	return bug, nil
}

// GetBug returns a bug the user can see (reporter or assignee). Anyone else
// gets not-found, matching the absence-based authorization of the routes.
func (s *BugService) GetBug(bugID, userID uint64) (*models.Bug, error) {
	bug, err := s.bugRepo.FindByID(bugID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, fmt.Errorf("failed to find bug: %w", err)
	}

	if bug.UserID != userID && (bug.AssigneeID == nil || *bug.AssigneeID != userID) {
		return nil, ErrBugNotFound
	}

	return bug, nil
}

// UpdateBugInput represents input for updating a bug.
type UpdateBugInput struct {
	Title       *string
	Description *string
	Status      *models.BugStatus
	Severity    *models.BugSeverity
	AssigneeID  *uint64
}

// UpdateBug updates a bug. Reporter only.
func (s *BugService) UpdateBug(bugID, actorID uint64, input UpdateBugInput) (*models.Bug, error) {
	bug, err := s.bugRepo.FindByID(bugID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, fmt.Errorf("failed to find bug: %w", err)
	}

	if bug.UserID != actorID {
		return nil, ErrBugNotFound
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrBugTitleRequired
		}
		bug.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		bug.Description = *input.Description
	}
	if input.Status != nil {
		switch *input.Status {
		case models.BugStatusOpen, models.BugStatusInProgress, models.BugStatusClosed:
			bug.Status = *input.Status
		default:
			return nil, ErrInvalidBugStatus
		}
	}
	if input.Severity != nil {
		bug.Severity = *input.Severity
	}
	if input.AssigneeID != nil {
		bug.AssigneeID = input.AssigneeID
	}

	if err := s.bugRepo.Update(bug); err != nil {
		return nil, fmt.Errorf("failed to update bug: %w", err)
	}

	return bug, nil
}

// DeleteBug deletes a bug. Reporter only.
func (s *BugService) DeleteBug(bugID, actorID uint64) error {
	bug, err := s.bugRepo.FindByID(bugID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBugNotFound
		}
		return fmt.Errorf("failed to find bug: %w", err)
	}

	if bug.UserID != actorID {
		return ErrBugNotFound
	}

	if err := s.bugRepo.Delete(bugID); err != nil {
		return fmt.Errorf("failed to delete bug: %w", err)
	}

	return nil
}
