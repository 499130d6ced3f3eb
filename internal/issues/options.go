package issues

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vilaca/issue-views/internal/domain"
)

const (
	noMilestoneText = "None (backlog)"
	noAssigneeText  = "None (unassigned)"
)

// Option is one entry of a select widget.
type Option struct {
	Value    string
	Text     string
	Selected bool
}

// BulkUpdateMilestoneOptions lists the active milestones of project after a
// leading "None (backlog)" entry, selecting params["milestone_id"].
func (h *Helpers) BulkUpdateMilestoneOptions(project *domain.Project, params url.Values) []Option {
	opts := optionsForSelect(noMilestoneText)
	if project == nil {
		return opts
	}
	return append(opts, milestoneCollection(project.ActiveMilestones(), params.Get("milestone_id"))...)
}

// BulkUpdateAssigneeOptions lists the members of project after a leading
// "None (unassigned)" entry, selecting params["assignee_id"].
func (h *Helpers) BulkUpdateAssigneeOptions(project *domain.Project, params url.Values) []Option {
	opts := optionsForSelect(noAssigneeText)
	if project == nil {
		return opts
	}
	return append(opts, memberCollection(project.Members, params.Get("assignee_id"))...)
}

// AssigneeOptions lists the members of project sorted by name, selecting
// the current assignee of target.
func (h *Helpers) AssigneeOptions(target domain.Assignable, project *domain.Project) []Option {
	if project == nil {
		return nil
	}
	members := make([]domain.User, len(project.Members))
	copy(members, project.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})
	return memberCollection(members, idString(target.AssigneeRef()))
}

// MilestoneOptions lists the active milestones of target's project,
// selecting target's current milestone.
func (h *Helpers) MilestoneOptions(target domain.Assignable) []Option {
	project := target.ProjectRef()
	if project == nil {
		return nil
	}
	return milestoneCollection(project.ActiveMilestones(), idString(target.MilestoneRef()))
}

// RenderOptions renders options as <option> elements.
func RenderOptions(opts []Option) template.HTML {
	var sb strings.Builder
	for _, o := range opts {
		selected := ""
		if o.Selected {
			selected = ` selected="selected"`
		}
		sb.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`,
			html.EscapeString(o.Value), selected, html.EscapeString(o.Text)))
		sb.WriteString("\n")
	}
	return template.HTML(sb.String())
}

// optionsForSelect builds options whose value equals their text.
func optionsForSelect(texts ...string) []Option {
	opts := make([]Option, 0, len(texts))
	for _, t := range texts {
		opts = append(opts, Option{Value: t, Text: t})
	}
	return opts
}

// optionsFromCollection builds one option per item; the option whose
// value equals selected is marked.
func optionsFromCollection[T any](items []T, value, text func(T) string, selected string) []Option {
	opts := make([]Option, 0, len(items))
	for _, item := range items {
		v := value(item)
		opts = append(opts, Option{
			Value:    v,
			Text:     text(item),
			Selected: selected != "" && v == selected,
		})
	}
	return opts
}

func milestoneCollection(milestones []domain.Milestone, selected string) []Option {
	return optionsFromCollection(milestones,
		func(m domain.Milestone) string { return idString(m.ID) },
		func(m domain.Milestone) string { return m.Title },
		selected)
}

func memberCollection(members []domain.User, selected string) []Option {
	return optionsFromCollection(members,
		func(u domain.User) string { return idString(u.ID) },
		func(u domain.User) string { return u.Name },
		selected)
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
