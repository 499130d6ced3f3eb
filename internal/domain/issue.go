package domain

import "time"

// Issue states.
const (
	IssueOpened = "opened"
	IssueClosed = "closed"
)

// Issue represents an issue tracked by a project's built-in tracker.
type Issue struct {
	ID          int64
	IID         int64 // project-scoped sequential number
	Title       string
	Description string
	State       string // "opened", "closed"
	AuthorName  string
	AuthorEmail string
	AssigneeID  int64 // 0 when unassigned
	MilestoneID int64 // 0 when in the backlog
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Project     *Project
}

// Closed reports whether the issue has been closed.
func (i Issue) Closed() bool {
	return i.State == IssueClosed
}

// Today reports whether the issue was created on the same calendar day as now.
func (i Issue) Today(now time.Time) bool {
	return sameDay(i.CreatedAt.In(now.Location()), now)
}

// Edited reports whether the issue changed after it was created.
func (i Issue) Edited() bool {
	return !i.UpdatedAt.Equal(i.CreatedAt)
}

func (i Issue) AssigneeRef() int64   { return i.AssigneeID }
func (i Issue) MilestoneRef() int64  { return i.MilestoneID }
func (i Issue) ProjectRef() *Project { return i.Project }

// BoxState implements BoxItem.
func (i Issue) BoxState(time.Time) BoxState {
	if i.Closed() {
		return BoxClosed
	}
	return BoxOpen
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
