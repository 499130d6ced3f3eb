package issues

import (
	"context"
	"html/template"
	"net/url"

	"github.com/vilaca/issue-views/internal/domain"
)

// View binds Helpers to one request: the current project and query params.
// Its methods default to them the way page templates expect.
type View struct {
	*Helpers
	ctx     context.Context
	Project *domain.Project
	Params  url.Values
}

// View returns a request-scoped view. project may be nil.
func (h *Helpers) View(ctx context.Context, project *domain.Project, params url.Values) *View {
	if params == nil {
		params = url.Values{}
	}
	return &View{Helpers: h, ctx: ctx, Project: project, Params: params}
}

func (v *View) ProjectIssuesURL() string { return v.URLForProjectIssues(v.Project) }
func (v *View) NewIssueURL() string      { return v.URLForNewIssue(v.Project) }
func (v *View) IssueURL(iid int64) string {
	return v.URLForIssue(iid, v.Project)
}

func (v *View) IssueTitle(iid int64) string {
	return v.TitleForIssue(v.ctx, iid, v.Project)
}

func (v *View) MilestoneBulkOptions() []Option {
	return v.BulkUpdateMilestoneOptions(v.Project, v.Params)
}

func (v *View) AssigneeBulkOptions() []Option {
	return v.BulkUpdateAssigneeOptions(v.Project, v.Params)
}

// FuncMap exposes the helpers to html/template.
func (v *View) FuncMap() template.FuncMap {
	return template.FuncMap{
		"issueCSSClasses":      v.IssueCSSClasses,
		"issueBoxClass":        v.IssueBoxClass,
		"issueTimestamp":       v.IssueTimestamp,
		"unassignedFilter":     v.UnassignedFilter,
		"urlForProjectIssues":  v.ProjectIssuesURL,
		"urlForNewIssue":       v.NewIssueURL,
		"urlForIssue":          v.IssueURL,
		"titleForIssue":        v.IssueTitle,
		"externalTrackerOn":    v.ExternalIssuesTrackerEnabled,
		"bulkMilestoneOptions": func() template.HTML { return RenderOptions(v.MilestoneBulkOptions()) },
		"bulkAssigneeOptions":  func() template.HTML { return RenderOptions(v.AssigneeBulkOptions()) },
		"assigneeOptions": func(target domain.Assignable) template.HTML {
			return RenderOptions(v.AssigneeOptions(target, v.Project))
		},
		"milestoneOptions": func(target domain.Assignable) template.HTML {
			return RenderOptions(v.MilestoneOptions(target))
		},
		"timeAgo": v.TimeAgo,
	}
}
