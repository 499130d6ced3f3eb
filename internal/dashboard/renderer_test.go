package dashboard

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-views/internal/domain"
	"github.com/vilaca/issue-views/internal/issues"
	"github.com/vilaca/issue-views/internal/routes"
)

var renderNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestView(project *domain.Project, params url.Values) (*HTMLRenderer, *issues.View) {
	r := routes.New("http://issues.test")
	h := issues.New(issues.Options{Routes: r, Now: func() time.Time { return renderNow }})
	renderer := NewHTMLRenderer(r)
	renderer.now = func() time.Time { return renderNow }
	return renderer, h.View(context.Background(), project, params)
}

func testProject() *domain.Project {
	due := renderNow.AddDate(0, 1, 0)
	return &domain.Project{
		ID:   1,
		Name: "Demo",
		Members: []domain.User{
			{ID: 2, Name: "Zoe"},
			{ID: 3, Name: "Ada"},
		},
		Milestones: []domain.Milestone{
			{ID: 10, Title: "v1.0", State: domain.MilestoneActive, DueDate: &due},
			{ID: 11, Title: "v0.9", State: domain.MilestoneClosed},
		},
	}
}

// TestHTMLRenderer_RenderHealth tests the health check rendering.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestHTMLRenderer_RenderHealth(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer(routes.New(""))
	buf := &bytes.Buffer{}

	// Act
	err := renderer.RenderHealth(buf)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, buf.String())
}

func TestHTMLRenderer_RenderIssues(t *testing.T) {
	// Arrange
	project := testProject()
	renderer, view := newTestView(project, url.Values{"milestone_id": {"10"}, "assignee_id": {"0"}})
	list := []*domain.Issue{
		{IID: 2, Title: "Today's bug", State: domain.IssueOpened, AssigneeID: 3, MilestoneID: 10,
			CreatedAt: renderNow.Add(-time.Hour), UpdatedAt: renderNow.Add(-time.Hour), Project: project},
		{IID: 1, Title: "Old bug", State: domain.IssueClosed,
			CreatedAt: renderNow.AddDate(0, 0, -3), UpdatedAt: renderNow.Add(-5 * time.Minute), Project: project},
	}
	buf := &bytes.Buffer{}

	// Act
	err := renderer.RenderIssues(buf, view, list)

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<li class="issue today">`)
	assert.Contains(t, out, `<li class="issue closed">`)
	assert.Contains(t, out, "Today&#39;s bug")
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, "(Edited ")
	assert.Contains(t, out, "Ada · v1.0")
	assert.Contains(t, out, "Unassigned · No milestone")
	assert.Contains(t, out, `<option value="10" selected="selected">v1.0</option>`)
	assert.Contains(t, out, `<option value="0" selected="selected">Unassigned</option>`)
	assert.NotContains(t, out, "v0.9", "closed milestones are not offered")
	assert.Contains(t, out, `action="/projects/1/issues/bulk_update"`)
}

func TestHTMLRenderer_RenderIssues_Empty(t *testing.T) {
	renderer, view := newTestView(testProject(), nil)
	buf := &bytes.Buffer{}

	require.NoError(t, renderer.RenderIssues(buf, view, nil))

	assert.Contains(t, buf.String(), "No issues match this filter.")
	assert.NotContains(t, buf.String(), "bulk_update")
}

func TestHTMLRenderer_RenderIssue(t *testing.T) {
	// Arrange
	project := testProject()
	renderer, view := newTestView(project, nil)
	issue := &domain.Issue{IID: 4, Title: "Closed bug", State: domain.IssueClosed, AssigneeID: 2, MilestoneID: 10,
		CreatedAt: renderNow.AddDate(0, 0, -2), UpdatedAt: renderNow.AddDate(0, 0, -2), Project: project}
	buf := &bytes.Buffer{}

	// Act
	err := renderer.RenderIssue(buf, view, issue)

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `class="issue-box issue-box-closed"`)
	assert.Contains(t, out, "2 days ago")
	assert.NotContains(t, out, "Edited")
	// Members are offered sorted by name.
	assert.Less(t, strings.Index(out, ">Ada</option>"), strings.Index(out, ">Zoe</option>"))
	assert.Contains(t, out, `<option value="2" selected="selected">Zoe</option>`)
	assert.Contains(t, out, `<option value="10" selected="selected">v1.0</option>`)
}

type stubFinder map[int64]string

func (f stubFinder) IssueByIID(_ context.Context, _, iid int64) (*domain.Issue, error) {
	title, ok := f[iid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Issue{IID: iid, Title: title}, nil
}

func TestLinkIssueReferences(t *testing.T) {
	// Arrange
	r := routes.New("http://issues.test")
	h := issues.New(issues.Options{Routes: r, Finder: stubFinder{3: `Fix "quotes"`}})
	view := h.View(context.Background(), testProject(), nil)

	// Act
	out := linkIssueReferences(view, "See #3 & #4.")

	// Assert
	assert.Equal(t,
		`See <a href="http://issues.test/projects/1/issues/3" title="Fix &quot;quotes&quot;" class="issue-reference">#3</a> &amp; #4.`,
		string(out))
}

func TestHTMLRenderer_RenderProjects(t *testing.T) {
	renderer, view := newTestView(nil, nil)
	buf := &bytes.Buffer{}

	require.NoError(t, renderer.RenderProjects(buf, view, []*domain.Project{{ID: 1, Name: "Demo", Path: "group/demo"}}))

	assert.Contains(t, buf.String(), `<a href="/projects/1/issues">Demo</a>`)
	assert.Contains(t, buf.String(), "built-in tracker")
}

func TestHTMLRenderer_RenderFeed_Empty(t *testing.T) {
	renderer, view := newTestView(testProject(), nil)
	buf := &bytes.Buffer{}

	require.NoError(t, renderer.RenderFeed(buf, view, nil))

	out := buf.String()
	assert.Contains(t, out, "<updated>2024-05-10T12:00:00Z</updated>")
	assert.Contains(t, out, `<link href="http://issues.test/projects/1/issues.atom" rel="self" type="application/atom+xml"></link>`)
	assert.NotContains(t, out, "<entry>")
}
