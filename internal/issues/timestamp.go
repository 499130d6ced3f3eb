package issues

import (
	"fmt"
	"html"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vilaca/issue-views/internal/domain"
)

const tooltipLayout = "Jan 2, 2006 3:04pm"

// IssueTimestamp renders when the issue was created and, when it changed
// afterwards, when it was last edited. The result is trusted markup.
func (h *Helpers) IssueTimestamp(issue domain.Issue) template.HTML {
	now := h.now()
	ts := timeAgoWithTooltip(issue.CreatedAt, now, "bottom", "note_created_ago")
	if issue.Edited() {
		ts += fmt.Sprintf("<small> (Edited %s)</small>",
			timeAgoWithTooltip(issue.UpdatedAt, now, "bottom", "issue_edited_ago"))
	}
	return template.HTML(ts)
}

// TimeAgo returns t relative to the helpers' clock, e.g. "3 hours ago".
func (h *Helpers) TimeAgo(t time.Time) string {
	return humanize.RelTime(t, h.now(), "ago", "from now")
}

func timeAgoWithTooltip(t, now time.Time, placement, class string) string {
	return fmt.Sprintf(`<time class="time_ago js-timeago %s" datetime="%s" title="%s" data-toggle="tooltip" data-placement="%s">%s</time>`,
		class,
		t.UTC().Format(time.RFC3339),
		html.EscapeString(t.Format(tooltipLayout)),
		placement,
		html.EscapeString(humanize.RelTime(t, now, "ago", "from now")))
}
