package domain

// DefaultIssuesTracker names the built-in tracker.
const DefaultIssuesTracker = "internal"

// Project represents a project together with its team and milestones.
type Project struct {
	ID              int64
	Name            string
	Path            string
	IssuesTracker   string // tracker name, DefaultIssuesTracker or a configured external one
	IssuesTrackerID string // project identifier inside the external tracker
	Members         []User
	Milestones      []Milestone
}

// UsedDefaultIssuesTracker reports whether the project tracks issues internally.
func (p *Project) UsedDefaultIssuesTracker() bool {
	return p.IssuesTracker == "" || p.IssuesTracker == DefaultIssuesTracker
}

// ActiveMilestones returns the milestones issues can still be assigned to.
func (p *Project) ActiveMilestones() []Milestone {
	var active []Milestone
	for _, m := range p.Milestones {
		if m.Active() {
			active = append(active, m)
		}
	}
	return active
}

// User is a team member of a project.
type User struct {
	ID       int64
	Name     string
	Username string
	Email    string
}
