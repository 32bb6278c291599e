package ports

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// NotificationRepository defines persistence for notifications. Rows are
// append-only except for the read flag.
type NotificationRepository interface {
	// Create inserts an Unread notification and assigns ID and CreatedAt.
	Create(ctx context.Context, n *domain.Notification) error
	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	// ListUnreadAfter returns unread rows with id greater than afterID,
	// oldest first, capped at limit. The live feed polls through this.
	ListUnreadAfter(ctx context.Context, afterID int64, limit int) ([]domain.Notification, error)
	// MarkRead flips the row to Read iff it belongs to userID. Returns
	// false when no such row exists for the caller.
	MarkRead(ctx context.Context, id int64, userID string) (bool, error)
}

// MembershipRepository defines persistence for team memberships.
type MembershipRepository interface {
	// Add creates a membership. Returns domain/errors.ErrAlreadyInTeam
	// when the user already belongs to a team (unique user constraint).
	Add(ctx context.Context, projectID int64, userID string) error
	// HasTeam reports whether the user belongs to any team.
	HasTeam(ctx context.Context, userID string) (bool, error)
	// ListByProject returns the project's members.
	ListByProject(ctx context.Context, projectID int64) ([]domain.TeamMembership, error)
}

// InvitationRepository defines persistence for team invitations.
type InvitationRepository interface {
	// Create inserts a Pending invitation and assigns ID and CreatedAt.
	Create(ctx context.Context, inv *domain.TeamInvitation) error
	// GetPending returns the pending invitation for (projectID, invitedUserID),
	// or nil when none exists.
	GetPending(ctx context.Context, projectID int64, invitedUserID string) (*domain.TeamInvitation, error)
	// ResolvePending atomically moves the pending invitation for
	// (projectID, invitedUserID) to the terminal status. Returns false when
	// no row was pending; the conditional update is the concurrency guard.
	ResolvePending(ctx context.Context, projectID int64, invitedUserID string, to domain.InvitationStatus) (bool, error)
}

// ProjectFilter narrows ProjectRepository.List.
type ProjectFilter struct {
	ThemeID int64
	Status  domain.ProjectStatus
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	// Create inserts a project and assigns ID and CreatedAt.
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]domain.Project, error)
	// ListForUser returns projects the user's team owns, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Project, error)
	CountByTheme(ctx context.Context, themeID int64) (int, error)
	// SetStatus updates the moderation status. Returns false when the
	// project does not exist.
	SetStatus(ctx context.Context, id int64, status domain.ProjectStatus) (bool, error)
}

// Stores groups the repositories that share one backing store.
type Stores interface {
	Notifications() NotificationRepository
	Memberships() MembershipRepository
	Invitations() InvitationRepository
	Projects() ProjectRepository
}

// Store is a transactional backing store. WithinTx runs fn against
// repositories bound to one unit of work: all writes apply on nil return
// and are rolled back otherwise.
type Store interface {
	Stores
	WithinTx(ctx context.Context, fn func(tx Stores) error) error
}
