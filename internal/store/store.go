package store

import (
	"context"

	"github.com/vilaca/issue-views/internal/domain"
)

// IssueFilter holds optional filter criteria for listing issues.
// A pointer set to 0 selects issues without a milestone or assignee.
type IssueFilter struct {
	ProjectID   int64
	State       string // "" lists every state
	MilestoneID *int64
	AssigneeID  *int64
}

// BulkUpdate describes the fields changed on every selected issue.
// Nil fields are left untouched; a pointer to 0 clears the field.
type BulkUpdate struct {
	MilestoneID *int64
	AssigneeID  *int64
	State       string
}

// Store defines the query layer behind the issue views.
type Store interface {
	// Users and projects
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	AddMember(ctx context.Context, projectID, userID int64) error

	// Milestones
	CreateMilestone(ctx context.Context, milestone *domain.Milestone) (*domain.Milestone, error)

	// Issues
	CreateIssue(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	IssueByIID(ctx context.Context, projectID, iid int64) (*domain.Issue, error)
	ListIssues(ctx context.Context, filter IssueFilter) ([]*domain.Issue, error)
	BulkUpdateIssues(ctx context.Context, projectID int64, iids []int64, update BulkUpdate) (int64, error)

	Close() error
}
