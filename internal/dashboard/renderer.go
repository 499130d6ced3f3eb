package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vilaca/issue-views/internal/domain"
	"github.com/vilaca/issue-views/internal/feed"
	"github.com/vilaca/issue-views/internal/issues"
	"github.com/vilaca/issue-views/internal/routes"
)

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderHealth(w io.Writer) error
	RenderProjects(w io.Writer, view *issues.View, projects []*domain.Project) error
	RenderIssues(w io.Writer, view *issues.View, list []*domain.Issue) error
	RenderIssue(w io.Writer, view *issues.View, issue *domain.Issue) error
	RenderNewIssue(w io.Writer, view *issues.View) error
	RenderFeed(w io.Writer, view *issues.View, list []*domain.Issue) error
}

// HTMLRenderer implements Renderer for HTML pages and Atom feeds.
type HTMLRenderer struct {
	routes *routes.Routes
	now    func() time.Time
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer(r *routes.Routes) *HTMLRenderer {
	return &HTMLRenderer{routes: r, now: time.Now}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderProjects renders the project list. Projects on an external tracker
// link straight to it.
func (r *HTMLRenderer) RenderProjects(w io.Writer, view *issues.View, projects []*domain.Project) error {
	var sb strings.Builder

	sb.WriteString(htmlHead("Projects", "", ""))
	sb.WriteString("		<h1>Projects</h1>\n")
	sb.WriteString(buildNavigation())

	if len(projects) == 0 {
		sb.WriteString(`		<div class="empty-state">No projects yet.</div>` + "\n")
	} else {
		sb.WriteString(`		<ul class="issues-list">` + "\n")
		for _, p := range projects {
			tracker := "built-in tracker"
			if !p.UsedDefaultIssuesTracker() && view.ExternalIssuesTrackerEnabled() {
				tracker = p.IssuesTracker
			}
			sb.WriteString(fmt.Sprintf(`			<li class="issue"><div class="issue-title">%s</div><div class="issue-meta">%s · %s</div></li>
`, link(view.URLForProjectIssues(p), p.Name), escapeHTML(p.Path), escapeHTML(tracker)))
		}
		sb.WriteString("		</ul>\n")
	}

	sb.WriteString(htmlFooter())
	_, err := w.Write([]byte(sb.String()))
	return err
}

// RenderIssues renders the issue list of the view's project with its
// filter and bulk update forms.
func (r *HTMLRenderer) RenderIssues(w io.Writer, view *issues.View, list []*domain.Issue) error {
	var sb strings.Builder
	p := view.Project

	sb.WriteString(htmlHead(p.Name+" issues", "", r.routes.ProjectIssuesFeedPath(p)))
	sb.WriteString(fmt.Sprintf("		<h1>%s issues</h1>\n", escapeHTML(p.Name)))
	sb.WriteString(buildNavigation(
		navLink{url: view.NewIssueURL(), text: "New issue"},
		navLink{url: r.routes.ProjectIssuesFeedPath(p), text: "Atom feed"},
	))

	r.writeFilters(&sb, view)

	if len(list) == 0 {
		sb.WriteString(`		<div class="empty-state">No issues match this filter.</div>` + "\n")
		sb.WriteString(htmlFooter())
		_, err := w.Write([]byte(sb.String()))
		return err
	}

	sb.WriteString(fmt.Sprintf(`		<form method="post" action="%s">
			<div class="bulk-update">
				<select name="milestone_id"><option value="">Milestone</option>
%s				</select>
				<select name="assignee_id"><option value="">Assignee</option>
%s				</select>
				<select name="state_event"><option value="">Status</option><option value="reopen">Open</option><option value="close">Closed</option></select>
				<button type="submit">Update issues</button>
			</div>
			<ul class="issues-list">
`, escapeHTML(r.routes.BulkUpdatePath(p)),
		issues.RenderOptions(view.MilestoneBulkOptions()),
		issues.RenderOptions(view.AssigneeBulkOptions())))

	for _, issue := range list {
		r.writeIssueRow(&sb, view, issue)
	}

	sb.WriteString("			</ul>\n		</form>\n")
	sb.WriteString(htmlFooter())
	_, err := w.Write([]byte(sb.String()))
	return err
}

// writeFilters writes the milestone and assignee filter form.
func (r *HTMLRenderer) writeFilters(sb *strings.Builder, view *issues.View) {
	none := view.UnassignedFilter()
	noneID := strconv.FormatInt(none.ID, 10)
	milestone := view.Params.Get("milestone_id")
	assignee := view.Params.Get("assignee_id")

	milestones := []issues.Option{
		{Value: "", Text: "Any milestone"},
		{Value: noneID, Text: none.Title, Selected: milestone == noneID},
	}
	for _, m := range view.Project.ActiveMilestones() {
		id := strconv.FormatInt(m.ID, 10)
		milestones = append(milestones, issues.Option{Value: id, Text: m.Title, Selected: milestone == id})
	}

	assignees := []issues.Option{
		{Value: "", Text: "Any assignee"},
		{Value: noneID, Text: none.Name, Selected: assignee == noneID},
	}
	for _, u := range view.Project.Members {
		id := strconv.FormatInt(u.ID, 10)
		assignees = append(assignees, issues.Option{Value: id, Text: u.Name, Selected: assignee == id})
	}

	sb.WriteString(fmt.Sprintf(`		<form method="get" class="filters">
			<select name="milestone_id">
%s			</select>
			<select name="assignee_id">
%s			</select>
			<button type="submit">Filter</button>
		</form>
`, issues.RenderOptions(milestones), issues.RenderOptions(assignees)))
}

// writeIssueRow writes a single issue row to the string builder.
func (r *HTMLRenderer) writeIssueRow(sb *strings.Builder, view *issues.View, issue *domain.Issue) {
	sb.WriteString(fmt.Sprintf(`				<li class="%s">
					<input type="checkbox" name="issue_ids" value="%d">
					<span class="issue-title">%s</span>
					<div class="issue-meta">#%d opened %s by %s · %s · %s</div>
				</li>
`, view.IssueCSSClasses(*issue),
		issue.IID,
		link(view.IssueURL(issue.IID), issue.Title),
		issue.IID, view.IssueTimestamp(*issue), escapeHTML(issue.AuthorName),
		escapeHTML(assigneeName(view.Project, issue.AssigneeID)),
		escapeHTML(milestoneTitle(view.Project, issue.MilestoneID))))
}

// issuePage is the issue detail page. It runs with the view's FuncMap.
const issuePage = `{{.Head}}{{.Nav}}		<div class="issue-box {{issueBoxClass .Issue}}">
			<h1>{{.Issue.Title}} <small>#{{.Issue.IID}}</small></h1>
			<div class="issue-meta">{{.State}} · opened {{issueTimestamp .Issue}} by {{.Issue.AuthorName}} · updated {{timeAgo .Issue.UpdatedAt}}</div>
			<p>{{issueReferences .Issue.Description}}</p>
			<form method="post" action="{{.UpdateURL}}" class="filters">
				<label>Assignee <select name="assignee_id"><option value="">Unassigned</option>
{{assigneeOptions .Issue}}				</select></label>
				<label>Milestone <select name="milestone_id"><option value="">None</option>
{{milestoneOptions .Issue}}				</select></label>
				<select name="state_event"><option value="">Status</option><option value="reopen">Open</option><option value="close">Closed</option></select>
				<button type="submit">Update issue</button>
			</form>
		</div>
{{.Footer}}`

type issuePageData struct {
	Head      template.HTML
	Nav       template.HTML
	Footer    template.HTML
	Issue     domain.Issue
	State     string
	UpdateURL string
}

// RenderIssue renders the detail page of a single issue with its
// assignee and milestone form.
func (r *HTMLRenderer) RenderIssue(w io.Writer, view *issues.View, issue *domain.Issue) error {
	p := view.Project

	tmpl, err := template.New("issue").
		Funcs(view.FuncMap()).
		Funcs(template.FuncMap{"issueReferences": func(text string) template.HTML {
			return linkIssueReferences(view, text)
		}}).
		Parse(issuePage)
	if err != nil {
		return err
	}

	state := "Open"
	if issue.Closed() {
		state = "Closed"
	}

	return tmpl.Execute(w, issuePageData{
		Head: template.HTML(htmlHead(fmt.Sprintf("%s #%d", issue.Title, issue.IID), "", "")),
		Nav: template.HTML(buildNavigation(
			navLink{url: view.ProjectIssuesURL(), text: p.Name + " issues"},
			navLink{url: view.NewIssueURL(), text: "New issue"},
		)),
		Footer:    template.HTML(htmlFooter()),
		Issue:     *issue,
		State:     state,
		UpdateURL: r.routes.ProjectIssuePath(p, issue.IID),
	})
}

var issueReference = regexp.MustCompile(`#(\d+)\b`)

// linkIssueReferences escapes text and links every #<iid> naming an
// existing issue of the view's project, with its title as tooltip.
func linkIssueReferences(view *issues.View, text string) template.HTML {
	var sb strings.Builder
	last := 0
	for _, m := range issueReference.FindAllStringSubmatchIndex(text, -1) {
		iid, err := strconv.ParseInt(text[m[2]:m[3]], 10, 64)
		if err != nil {
			continue
		}
		title := view.IssueTitle(iid)
		if title == "" {
			continue
		}
		sb.WriteString(escapeHTML(text[last:m[0]]))
		sb.WriteString(fmt.Sprintf(`<a href="%s" title="%s" class="issue-reference">%s</a>`,
			escapeHTML(view.IssueURL(iid)), escapeHTML(title), escapeHTML(text[m[0]:m[1]])))
		last = m[1]
	}
	sb.WriteString(escapeHTML(text[last:]))
	return template.HTML(sb.String())
}

// RenderNewIssue renders the new issue form.
func (r *HTMLRenderer) RenderNewIssue(w io.Writer, view *issues.View) error {
	var sb strings.Builder
	p := view.Project
	draft := domain.Issue{Project: p}

	sb.WriteString(htmlHead("New issue", "", ""))
	sb.WriteString("		<h1>New issue</h1>\n")
	sb.WriteString(buildNavigation(navLink{url: view.ProjectIssuesURL(), text: p.Name + " issues"}))
	sb.WriteString(fmt.Sprintf(`		<form method="post" action="%s" class="filters">
			<input type="text" name="title" placeholder="Title" required>
			<textarea name="description" placeholder="Description"></textarea>
			<select name="assignee_id"><option value="">Unassigned</option>
%s			</select>
			<select name="milestone_id"><option value="">None</option>
%s			</select>
			<button type="submit">Submit issue</button>
		</form>
`, escapeHTML(r.routes.ProjectIssuesPath(p)),
		issues.RenderOptions(view.AssigneeOptions(draft, p)),
		issues.RenderOptions(view.MilestoneOptions(draft))))

	sb.WriteString(htmlFooter())
	_, err := w.Write([]byte(sb.String()))
	return err
}

// RenderFeed writes the Atom feed of the view's project.
func (r *HTMLRenderer) RenderFeed(w io.Writer, view *issues.View, list []*domain.Issue) error {
	p := view.Project
	updated := r.now()
	if len(list) > 0 {
		updated = list[0].CreatedAt
	}

	listURL := r.routes.URL(r.routes.ProjectIssuesPath(p))
	f := feed.New(p.Name+" issues", listURL, r.routes.URL(r.routes.ProjectIssuesFeedPath(p)), listURL, updated)
	for _, issue := range list {
		f.Entries = append(f.Entries, view.IssueToAtomEntry(*issue))
	}
	return f.Encode(w)
}

func assigneeName(p *domain.Project, id int64) string {
	if id == 0 {
		return "Unassigned"
	}
	for _, u := range p.Members {
		if u.ID == id {
			return u.Name
		}
	}
	return "Unknown user"
}

func milestoneTitle(p *domain.Project, id int64) string {
	if id == 0 {
		return "No milestone"
	}
	for _, m := range p.Milestones {
		if m.ID == id {
			return m.Title
		}
	}
	return "Unknown milestone"
}
