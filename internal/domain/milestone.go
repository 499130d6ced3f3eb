package domain

import "time"

// Milestone states.
const (
	MilestoneActive = "active"
	MilestoneClosed = "closed"
)

// Milestone groups issues towards a due date.
type Milestone struct {
	ID        int64
	ProjectID int64
	Title     string
	State     string     // "active", "closed"
	DueDate   *time.Time // nil when the milestone has no due date
}

// Active reports whether issues can still be assigned to the milestone.
func (m Milestone) Active() bool {
	return m.State == MilestoneActive
}

// Closed reports whether the milestone has been closed.
func (m Milestone) Closed() bool {
	return m.State == MilestoneClosed
}

// Expired reports whether the due date lies before now's calendar day.
func (m Milestone) Expired(now time.Time) bool {
	if m.DueDate == nil {
		return false
	}
	// Due dates are calendar dates; compare them in now's location.
	y, mo, d := m.DueDate.Date()
	due := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())
	y, mo, d = now.Date()
	return due.Before(time.Date(y, mo, d, 0, 0, 0, 0, now.Location()))
}

// BoxState implements BoxItem.
func (m Milestone) BoxState(now time.Time) BoxState {
	switch {
	case m.Expired(now):
		return BoxExpired
	case m.Closed():
		return BoxClosed
	default:
		return BoxOpen
	}
}
