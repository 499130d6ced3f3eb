package domain

import "time"

// BoxState is the display state of an item rendered in an issue box.
type BoxState int

const (
	BoxOpen BoxState = iota
	BoxClosed
	BoxMerged
	BoxExpired
)

// BoxItem is implemented by everything rendered in an issue box:
// issues, merge requests and milestones.
type BoxItem interface {
	BoxState(now time.Time) BoxState
}

// Assignable is an item carrying an assignee and a milestone within a project.
type Assignable interface {
	AssigneeRef() int64
	MilestoneRef() int64
	ProjectRef() *Project
}
