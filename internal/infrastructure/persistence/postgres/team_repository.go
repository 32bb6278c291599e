package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

const addMemberSQL = `
INSERT INTO team_members (project_id, user_id) VALUES ($1, $2);
`

const hasTeamSQL = `
SELECT COUNT(*) FROM team_members WHERE user_id = $1;
`

const listMembersByProjectSQL = `
SELECT project_id, user_id, created_at
FROM team_members
WHERE project_id = $1
ORDER BY user_id;
`

// uniqueViolation is the Postgres error code raised by the
// one-team-per-user constraint.
const uniqueViolation = "23505"

// MembershipRepository implements ports.MembershipRepository on pgx.
// The team_members table carries UNIQUE(user_id); that constraint, not
// this code, is what holds the at-most-one-team invariant under races.
type MembershipRepository struct {
	db dbtx
}

func (r *MembershipRepository) Add(ctx context.Context, projectID int64, userID string) error {
	_, err := r.db.Exec(ctx, addMemberSQL, projectID, userID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domerrors.ErrAlreadyInTeam
	}
	return err
}

func (r *MembershipRepository) HasTeam(ctx context.Context, userID string) (bool, error) {
	var count int
	if err := r.db.QueryRow(ctx, hasTeamSQL, userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MembershipRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.TeamMembership, error) {
	rows, err := r.db.Query(ctx, listMembersByProjectSQL, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.TeamMembership
	for rows.Next() {
		var m domain.TeamMembership
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const createInvitationSQL = `
INSERT INTO team_invitations (project_id, invited_user_id, inviter_user_id, status)
VALUES ($1, $2, $3, $4)
RETURNING invitation_id, created_at;
`

const getPendingInvitationSQL = `
SELECT invitation_id, project_id, invited_user_id, inviter_user_id, status, created_at
FROM team_invitations
WHERE project_id = $1 AND invited_user_id = $2 AND status = 'Pending'
ORDER BY created_at DESC
LIMIT 1;
`

const resolvePendingInvitationSQL = `
UPDATE team_invitations SET status = $3
WHERE project_id = $1 AND invited_user_id = $2 AND status = 'Pending';
`

// InvitationRepository implements ports.InvitationRepository on pgx.
type InvitationRepository struct {
	db dbtx
}

func (r *InvitationRepository) Create(ctx context.Context, inv *domain.TeamInvitation) error {
	if inv.Status == "" {
		inv.Status = domain.InvitationPending
	}
	return r.db.QueryRow(ctx, createInvitationSQL,
		inv.ProjectID, inv.InvitedUserID, inv.InviterUserID, string(inv.Status),
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (r *InvitationRepository) GetPending(ctx context.Context, projectID int64, invitedUserID string) (*domain.TeamInvitation, error) {
	var inv domain.TeamInvitation
	var status string
	err := r.db.QueryRow(ctx, getPendingInvitationSQL, projectID, invitedUserID).
		Scan(&inv.ID, &inv.ProjectID, &inv.InvitedUserID, &inv.InviterUserID, &status, &inv.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	inv.Status = domain.InvitationStatus(status)
	return &inv, nil
}

func (r *InvitationRepository) ResolvePending(ctx context.Context, projectID int64, invitedUserID string, to domain.InvitationStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, resolvePendingInvitationSQL, projectID, invitedUserID, string(to))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var (
	_ ports.MembershipRepository = (*MembershipRepository)(nil)
	_ ports.InvitationRepository = (*InvitationRepository)(nil)
)
