// Package routes builds the paths and absolute URLs served by the dashboard.
package routes

import (
	"fmt"
	"strings"

	"github.com/vilaca/issue-views/internal/domain"
)

// Routes builds internal paths for projects and issues.
type Routes struct {
	baseURL string
}

// New creates a Routes rooted at baseURL (e.g. "https://issues.example.com").
func New(baseURL string) *Routes {
	return &Routes{baseURL: strings.TrimRight(baseURL, "/")}
}

// ProjectIssuesPath returns the path of a project's issue list.
func (r *Routes) ProjectIssuesPath(p *domain.Project) string {
	return fmt.Sprintf("/projects/%d/issues", p.ID)
}

// ProjectIssuesFeedPath returns the path of a project's Atom feed.
func (r *Routes) ProjectIssuesFeedPath(p *domain.Project) string {
	return r.ProjectIssuesPath(p) + ".atom"
}

// NewProjectIssuePath returns the path of the new issue form.
func (r *Routes) NewProjectIssuePath(p *domain.Project) string {
	return r.ProjectIssuesPath(p) + "/new"
}

// BulkUpdatePath returns the path that accepts bulk issue updates.
func (r *Routes) BulkUpdatePath(p *domain.Project) string {
	return r.ProjectIssuesPath(p) + "/bulk_update"
}

// ProjectIssuePath returns the path of a single issue.
func (r *Routes) ProjectIssuePath(p *domain.Project, iid int64) string {
	return fmt.Sprintf("%s/%d", r.ProjectIssuesPath(p), iid)
}

// ProjectIssueURL returns the absolute URL of a single issue.
func (r *Routes) ProjectIssueURL(p *domain.Project, iid int64) string {
	return r.baseURL + r.ProjectIssuePath(p, iid)
}

// URL turns a path into an absolute URL.
func (r *Routes) URL(path string) string {
	return r.baseURL + path
}
