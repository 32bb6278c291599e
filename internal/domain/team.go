package domain

import "time"

// TeamMembership records that a user belongs to a project's team.
// A user belongs to at most one team at a time; the membership store
// enforces this with a unique constraint on the user id.
type TeamMembership struct {
	ProjectID int64
	UserID    string
	CreatedAt time.Time
}

// InvitationStatus is the lifecycle state of a team invitation.
// Pending transitions to Accepted or Rejected, both terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "Pending"
	InvitationAccepted InvitationStatus = "Accepted"
	InvitationRejected InvitationStatus = "Rejected"
)

// TeamInvitation asks a user to join a project's team. Rows are never
// deleted; only the status changes. A resolved (project, user) pair may
// be invited again, producing a second row.
type TeamInvitation struct {
	ID            int64
	ProjectID     int64
	InvitedUserID string
	InviterUserID string
	Status        InvitationStatus
	CreatedAt     time.Time
}
