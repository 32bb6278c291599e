package domain

import "time"

// ProjectStatus tracks a project through admin moderation.
type ProjectStatus string

const (
	ProjectUnassigned ProjectStatus = "Unassigned"
	ProjectPending    ProjectStatus = "Pending"
	ProjectApproved   ProjectStatus = "Approved"
	ProjectRejected   ProjectStatus = "Rejected"
)

// Project is a student team's submission under a theme.
type Project struct {
	ID               int64
	Title            string
	Abstract         string
	ProblemStatement string
	ThemeID          int64
	Status           ProjectStatus
	CreatedAt        time.Time
}

// Theme is a topic category projects are classified under.
type Theme struct {
	ID   int64
	Name string
}
