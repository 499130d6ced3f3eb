package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

func TestIssue_Today(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		want    bool
	}{
		{"earlier today", now.Add(-14 * time.Hour), true},
		{"yesterday evening", now.Add(-16 * time.Hour), false},
		{"last year same date", now.AddDate(-1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Issue{CreatedAt: tt.created}.Today(now))
		})
	}
}

func TestIssue_Edited(t *testing.T) {
	created := now.Add(-time.Hour)

	assert.False(t, Issue{CreatedAt: created, UpdatedAt: created}.Edited())
	assert.True(t, Issue{CreatedAt: created, UpdatedAt: now}.Edited())
}

func TestBoxState(t *testing.T) {
	past := now.AddDate(0, 0, -1)
	later := now.Add(-time.Hour) // earlier today, not yet expired

	tests := []struct {
		name string
		item BoxItem
		want BoxState
	}{
		{"open issue", Issue{State: IssueOpened}, BoxOpen},
		{"closed issue", Issue{State: IssueClosed}, BoxClosed},
		{"open merge request", MergeRequest{State: MergeRequestOpened}, BoxOpen},
		{"closed merge request", MergeRequest{State: MergeRequestClosed}, BoxClosed},
		{"merged merge request", MergeRequest{State: MergeRequestMerged}, BoxMerged},
		{"active milestone", Milestone{State: MilestoneActive}, BoxOpen},
		{"milestone due today", Milestone{State: MilestoneActive, DueDate: &later}, BoxOpen},
		{"closed milestone", Milestone{State: MilestoneClosed}, BoxClosed},
		{"expired milestone", Milestone{State: MilestoneActive, DueDate: &past}, BoxExpired},
		{"closed and expired milestone", Milestone{State: MilestoneClosed, DueDate: &past}, BoxExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.BoxState(now))
		})
	}
}

func TestProject_UsedDefaultIssuesTracker(t *testing.T) {
	assert.True(t, (&Project{}).UsedDefaultIssuesTracker())
	assert.True(t, (&Project{IssuesTracker: DefaultIssuesTracker}).UsedDefaultIssuesTracker())
	assert.False(t, (&Project{IssuesTracker: "redmine"}).UsedDefaultIssuesTracker())
}

func TestProject_ActiveMilestones(t *testing.T) {
	p := &Project{Milestones: []Milestone{
		{ID: 1, State: MilestoneActive},
		{ID: 2, State: MilestoneClosed},
		{ID: 3, State: MilestoneActive},
	}}

	active := p.ActiveMilestones()

	assert.Len(t, active, 2)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, int64(3), active[1].ID)
}

func TestMilestone_Expired_NonUTCLocation(t *testing.T) {
	// Arrange
	newYork := time.FixedZone("EDT", -4*60*60)
	tokyo := time.FixedZone("JST", 9*60*60)
	due, err := time.Parse(time.DateOnly, "2024-05-10")
	if err != nil {
		t.Fatal(err)
	}
	m := Milestone{State: MilestoneActive, DueDate: &due}

	tests := []struct {
		name string
		now  time.Time
		want BoxState
	}{
		{"due day morning west of UTC", time.Date(2024, 5, 10, 10, 0, 0, 0, newYork), BoxOpen},
		{"due day late evening west of UTC", time.Date(2024, 5, 10, 23, 0, 0, 0, newYork), BoxOpen},
		{"due day early morning east of UTC", time.Date(2024, 5, 10, 1, 0, 0, 0, tokyo), BoxOpen},
		{"day after west of UTC", time.Date(2024, 5, 11, 0, 30, 0, 0, newYork), BoxExpired},
		{"day after east of UTC", time.Date(2024, 5, 11, 0, 30, 0, 0, tokyo), BoxExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := m.BoxState(tt.now)

			// Assert
			assert.Equal(t, tt.want, got)
		})
	}
}
