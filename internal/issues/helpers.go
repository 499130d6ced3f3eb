// Package issues holds the presentation helpers used by issue views:
// CSS classes, tracker URLs, select options, timestamps and Atom entries.
package issues

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vilaca/issue-views/internal/config"
	"github.com/vilaca/issue-views/internal/domain"
	"github.com/vilaca/issue-views/internal/routes"
)

// Finder looks up an issue by its project-scoped iid.
// It returns domain.ErrNotFound when the project has no such issue.
type Finder interface {
	IssueByIID(ctx context.Context, projectID, iid int64) (*domain.Issue, error)
}

// AvatarLookup resolves an author email to an avatar image URL.
type AvatarLookup interface {
	URL(email string) string
}

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Options holds the collaborators of Helpers.
type Options struct {
	Trackers map[string]config.TrackerConfig
	Routes   *routes.Routes
	Finder   Finder
	Avatars  AvatarLookup
	Logger   Logger
	Now      func() time.Time // defaults to time.Now
}

// Helpers renders domain objects into view fragments.
// It holds no mutable state and is safe to share between requests.
type Helpers struct {
	trackers map[string]config.TrackerConfig
	routes   *routes.Routes
	finder   Finder
	avatars  AvatarLookup
	logger   Logger
	now      func() time.Time
}

// New creates Helpers with the given collaborators.
func New(opts Options) *Helpers {
	h := &Helpers{
		trackers: opts.Trackers,
		routes:   opts.Routes,
		finder:   opts.Finder,
		avatars:  opts.Avatars,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if h.routes == nil {
		h.routes = routes.New("")
	}
	if h.logger == nil {
		h.logger = nopLogger{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// IssueCSSClasses returns the CSS classes of an issue row.
func (h *Helpers) IssueCSSClasses(issue domain.Issue) string {
	classes := "issue"
	if issue.Closed() {
		classes += " closed"
	}
	if issue.Today(h.now()) {
		classes += " today"
	}
	return classes
}

// FilterOption is a placeholder entry for filter dropdowns. Milestone
// dropdowns read Title, assignee dropdowns read Name.
type FilterOption struct {
	ID    int64
	Title string
	Name  string
}

// UnassignedFilter returns the entry used to filter issues without a
// milestone or assignee.
func (h *Helpers) UnassignedFilter() FilterOption {
	return FilterOption{ID: 0, Title: "None (backlog)", Name: "Unassigned"}
}

// ExternalIssuesTrackerEnabled returns true if any external tracker is configured.
func (h *Helpers) ExternalIssuesTrackerEnabled() bool {
	return len(h.trackers) > 0
}

// URLForProjectIssues returns the issue list of project, on the built-in
// tracker or the project's external one. It returns "" for a nil project.
func (h *Helpers) URLForProjectIssues(project *domain.Project) string {
	if project == nil {
		return ""
	}
	tracker, ok := h.externalTracker(project)
	if !ok {
		return h.routes.ProjectIssuesPath(project)
	}
	return substituteProject(tracker.ProjectURL, project)
}

// URLForNewIssue returns where a new issue for project is filed.
func (h *Helpers) URLForNewIssue(project *domain.Project) string {
	if project == nil {
		return ""
	}
	tracker, ok := h.externalTracker(project)
	if !ok {
		return h.routes.NewProjectIssuePath(project)
	}
	return substituteProject(tracker.NewIssueURL, project)
}

// URLForIssue returns the URL of issue iid in project.
func (h *Helpers) URLForIssue(iid int64, project *domain.Project) string {
	if project == nil {
		return ""
	}
	tracker, ok := h.externalTracker(project)
	if !ok {
		return h.routes.ProjectIssueURL(project, iid)
	}
	url := strings.ReplaceAll(tracker.IssuesURL, ":id", strconv.FormatInt(iid, 10))
	return substituteProject(url, project)
}

// TitleForIssue returns the title of issue iid, or "" when the project is
// nil, tracks issues externally, or has no such issue.
func (h *Helpers) TitleForIssue(ctx context.Context, iid int64, project *domain.Project) string {
	if project == nil || !project.UsedDefaultIssuesTracker() || h.finder == nil {
		return ""
	}

	issue, err := h.finder.IssueByIID(ctx, project.ID, iid)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.logger.Printf("failed to look up issue #%d of project %d: %v", iid, project.ID, err)
		}
		return ""
	}
	if issue == nil {
		return ""
	}
	return issue.Title
}

// IssueBoxClass returns the box class of an issue, merge request or
// milestone. Expired wins over merged, merged over closed.
func (h *Helpers) IssueBoxClass(item domain.BoxItem) string {
	switch item.BoxState(h.now()) {
	case domain.BoxExpired:
		return "issue-box-expired"
	case domain.BoxMerged:
		return "issue-box-merged"
	case domain.BoxClosed:
		return "issue-box-closed"
	default:
		return "issue-box-open"
	}
}

// externalTracker returns the tracker configuration project links to.
// ok is false when the built-in tracker applies.
func (h *Helpers) externalTracker(project *domain.Project) (config.TrackerConfig, bool) {
	if project.UsedDefaultIssuesTracker() || !h.ExternalIssuesTrackerEnabled() {
		return config.TrackerConfig{}, false
	}
	tracker, ok := h.trackers[project.IssuesTracker]
	if !ok {
		h.logger.Printf("issues tracker %q of project %d is not configured, using built-in tracker", project.IssuesTracker, project.ID)
		return config.TrackerConfig{}, false
	}
	return tracker, true
}

// substituteProject replaces the project placeholders literally, without escaping.
func substituteProject(url string, project *domain.Project) string {
	url = strings.ReplaceAll(url, ":project_id", strconv.FormatInt(project.ID, 10))
	return strings.ReplaceAll(url, ":issues_tracker_id", project.IssuesTrackerID)
}
