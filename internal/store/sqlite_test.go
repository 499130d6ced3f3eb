package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-views/internal/domain"
)

// newTestStore creates a fresh in-memory SQLite store for testing.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedProject creates a project with two members and two milestones.
func seedProject(t *testing.T, s *SQLiteStore) *domain.Project {
	t.Helper()
	ctx := context.Background()

	p, err := s.CreateProject(ctx, &domain.Project{Name: "Demo", Path: "group/demo"})
	require.NoError(t, err)

	for _, u := range []domain.User{
		{Name: "Zoe", Username: "zoe", Email: "zoe@example.com"},
		{Name: "Ada", Username: "ada", Email: "ada@example.com"},
	} {
		created, err := s.CreateUser(ctx, &u)
		require.NoError(t, err)
		require.NoError(t, s.AddMember(ctx, p.ID, created.ID))
	}

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.CreateMilestone(ctx, &domain.Milestone{ProjectID: p.ID, Title: "v1.0", DueDate: &due})
	require.NoError(t, err)
	_, err = s.CreateMilestone(ctx, &domain.Milestone{ProjectID: p.ID, Title: "v0.9", State: domain.MilestoneClosed})
	require.NoError(t, err)

	p, err = s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	return p
}

func TestCreateProject_Defaults(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreateProject(context.Background(), &domain.Project{Name: "Demo", Path: "demo"})

	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, domain.DefaultIssuesTracker, p.IssuesTracker)
	assert.True(t, p.UsedDefaultIssuesTracker())
}

func TestCreateProject_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, &domain.Project{Name: "Demo", Path: "demo"})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, &domain.Project{Name: "Other", Path: "demo"})

	assert.ErrorContains(t, err, "already exists")
}

func TestGetProject_LoadsMembersAndMilestones(t *testing.T) {
	s := newTestStore(t)

	p := seedProject(t, s)

	require.Len(t, p.Members, 2)
	assert.Equal(t, "Zoe", p.Members[0].Name)
	require.Len(t, p.Milestones, 2)
	require.NotNil(t, p.Milestones[0].DueDate)
	assert.Equal(t, "2024-06-01", p.Milestones[0].DueDate.Format(time.DateOnly))
	assert.Nil(t, p.Milestones[1].DueDate)

	active := p.ActiveMilestones()
	require.Len(t, active, 1)
	assert.Equal(t, "v1.0", active[0].Title)
}

func TestGetProject_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProject(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateIssue_SequentialIIDPerProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedProject(t, s)
	b, err := s.CreateProject(ctx, &domain.Project{Name: "B", Path: "b"})
	require.NoError(t, err)

	first, err := s.CreateIssue(ctx, &domain.Issue{Title: "one", Project: a})
	require.NoError(t, err)
	second, err := s.CreateIssue(ctx, &domain.Issue{Title: "two", Project: a})
	require.NoError(t, err)
	other, err := s.CreateIssue(ctx, &domain.Issue{Title: "other", Project: b})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.IID)
	assert.Equal(t, int64(2), second.IID)
	assert.Equal(t, int64(1), other.IID)
	assert.Equal(t, domain.IssueOpened, first.State)
	assert.False(t, first.Edited(), "new issues start unedited")
}

func TestCreateIssue_RequiresProject(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateIssue(context.Background(), &domain.Issue{Title: "orphan"})

	assert.Error(t, err)
}

// TestCreate_ReturnsInsertedIDs tests that every create call reports the
// id of the row it inserted.
func TestCreate_ReturnsInsertedIDs(t *testing.T) {
	// Arrange
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)

	// Act
	user, errUser := s.CreateUser(ctx, &domain.User{Name: "Bob", Username: "bob"})
	milestone, errMilestone := s.CreateMilestone(ctx, &domain.Milestone{ProjectID: p.ID, Title: "v2.0"})
	issue, errIssue := s.CreateIssue(ctx, &domain.Issue{Title: "First", Project: p})

	// Assert
	require.NoError(t, errUser)
	require.NoError(t, errMilestone)
	require.NoError(t, errIssue)
	assert.Equal(t, int64(3), user.ID, "two members were seeded before")
	assert.Equal(t, int64(3), milestone.ID, "two milestones were seeded before")

	stored, err := s.IssueByIID(ctx, p.ID, issue.IID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, stored.ID)
	assert.NotZero(t, stored.ID)
}

func TestGetProject_DueDateIsCalendarDate(t *testing.T) {
	// Arrange
	s := newTestStore(t)
	p := seedProject(t, s)
	newYork := time.FixedZone("EDT", -4*60*60)
	dueDay := time.Date(2024, 6, 1, 10, 0, 0, 0, newYork)

	// Act
	v1 := p.Milestones[0]

	// Assert
	require.NotNil(t, v1.DueDate)
	assert.Equal(t, "2024-06-01", v1.DueDate.Format(time.DateOnly))
	assert.False(t, v1.Expired(dueDay), "a milestone is not expired on its own due day")
	assert.True(t, v1.Expired(dueDay.AddDate(0, 0, 1)))
}

func TestIssueByIID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	_, err := s.CreateIssue(ctx, &domain.Issue{
		Title:       "Crash on login",
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
		Project:     p,
	})
	require.NoError(t, err)

	issue, err := s.IssueByIID(ctx, p.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, "Crash on login", issue.Title)
	assert.True(t, created.Equal(issue.CreatedAt))
	assert.True(t, issue.Edited())
	require.NotNil(t, issue.Project)
	assert.Equal(t, p.ID, issue.Project.ID)

	_, err = s.IssueByIID(ctx, p.ID, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListIssues_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)
	zoe := p.Members[0].ID
	milestone := p.Milestones[0].ID
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, issue := range []domain.Issue{
		{Title: "assigned", AssigneeID: zoe},
		{Title: "planned", MilestoneID: milestone},
		{Title: "closed", State: domain.IssueClosed},
	} {
		issue.Project = p
		issue.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := s.CreateIssue(ctx, &issue)
		require.NoError(t, err)
	}
	none := int64(0)

	tests := []struct {
		name   string
		filter IssueFilter
		want   []string
	}{
		{"all newest first", IssueFilter{ProjectID: p.ID}, []string{"closed", "planned", "assigned"}},
		{"opened", IssueFilter{ProjectID: p.ID, State: domain.IssueOpened}, []string{"planned", "assigned"}},
		{"by assignee", IssueFilter{ProjectID: p.ID, AssigneeID: &zoe}, []string{"assigned"}},
		{"unassigned", IssueFilter{ProjectID: p.ID, AssigneeID: &none}, []string{"closed", "planned"}},
		{"by milestone", IssueFilter{ProjectID: p.ID, MilestoneID: &milestone}, []string{"planned"}},
		{"backlog", IssueFilter{ProjectID: p.ID, MilestoneID: &none}, []string{"closed", "assigned"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := s.ListIssues(ctx, tt.filter)
			require.NoError(t, err)

			var titles []string
			for _, issue := range issues {
				titles = append(titles, issue.Title)
				assert.Equal(t, p.ID, issue.Project.ID)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestBulkUpdateIssues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.CreateIssue(ctx, &domain.Issue{Title: title, Project: p, CreatedAt: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
	}
	milestone := p.Milestones[0].ID
	assignee := p.Members[1].ID

	n, err := s.BulkUpdateIssues(ctx, p.ID, []int64{1, 3}, BulkUpdate{MilestoneID: &milestone, AssigneeID: &assignee})

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	a, err := s.IssueByIID(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, milestone, a.MilestoneID)
	assert.Equal(t, assignee, a.AssigneeID)
	assert.True(t, a.Edited())

	b, err := s.IssueByIID(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, b.MilestoneID, "unselected issues are untouched")
	assert.Zero(t, b.AssigneeID)
}

func TestBulkUpdateIssues_NothingToDo(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	n, err := s.BulkUpdateIssues(context.Background(), p.ID, []int64{1}, BulkUpdate{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.BulkUpdateIssues(context.Background(), p.ID, nil, BulkUpdate{State: domain.IssueClosed})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListProjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateProject(ctx, &domain.Project{Name: "Zeta", Path: "zeta"})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, &domain.Project{Name: "Alpha", Path: "alpha", IssuesTracker: "redmine", IssuesTrackerID: "alp"})
	require.NoError(t, err)

	projects, err := s.ListProjects(ctx)

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Alpha", projects[0].Name)
	assert.Equal(t, "redmine", projects[0].IssuesTracker)
	assert.Equal(t, "alp", projects[0].IssuesTrackerID)
}

func TestStoreImplementsInterface(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
}
