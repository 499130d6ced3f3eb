package domain

import "time"

// Merge request states.
const (
	MergeRequestOpened = "opened"
	MergeRequestClosed = "closed"
	MergeRequestMerged = "merged"
)

// MergeRequest represents a merge request shown alongside issues.
type MergeRequest struct {
	ID           int64
	IID          int64
	Title        string
	State        string // "opened", "closed", "merged"
	SourceBranch string
	TargetBranch string
	AuthorName   string
	AssigneeID   int64
	MilestoneID  int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Project      *Project
}

// Merged reports whether the merge request has been merged.
func (mr MergeRequest) Merged() bool {
	return mr.State == MergeRequestMerged
}

// Closed reports whether the merge request was closed without merging.
func (mr MergeRequest) Closed() bool {
	return mr.State == MergeRequestClosed
}

func (mr MergeRequest) AssigneeRef() int64   { return mr.AssigneeID }
func (mr MergeRequest) MilestoneRef() int64  { return mr.MilestoneID }
func (mr MergeRequest) ProjectRef() *Project { return mr.Project }

// BoxState implements BoxItem.
func (mr MergeRequest) BoxState(time.Time) BoxState {
	switch {
	case mr.Merged():
		return BoxMerged
	case mr.Closed():
		return BoxClosed
	default:
		return BoxOpen
	}
}
