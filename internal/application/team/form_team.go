package team

import (
	"context"
	"fmt"

	"github.com/keerthi-manne/EL-management-System/internal/application/notify"
	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

// FormTeamInput is the creator plus the team to assemble.
type FormTeamInput struct {
	CreatorID       string
	ProjectName     string
	ThemeID         int64
	TeammateUserIDs []string
}

// FormTeamResult is the created project and how many teammates were invited.
type FormTeamResult struct {
	ProjectID int64
	Invited   int
}

// FormTeam creates a project with its initial membership and a batch of
// pending invitations, then notifies each invitee. The project, creator
// membership and invitations commit as one unit; notifications are
// best-effort outside it.
type FormTeam struct {
	store      ports.Store
	dispatcher *notify.Dispatcher
}

// NewFormTeam builds the use case.
func NewFormTeam(store ports.Store, dispatcher *notify.Dispatcher) *FormTeam {
	return &FormTeam{store: store, dispatcher: dispatcher}
}

// Execute runs the workflow. Preconditions are checked in order and the
// first failure wins: non-empty name/theme, creator teamless, every
// invitee teamless (reporting the full offending list).
func (uc *FormTeam) Execute(ctx context.Context, input FormTeamInput) (*FormTeamResult, error) {
	if input.ProjectName == "" || input.ThemeID == 0 {
		return nil, domerrors.ErrMissingFields
	}

	inTeam, err := uc.store.Memberships().HasTeam(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}
	if inTeam {
		return nil, domerrors.ErrAlreadyInTeam
	}

	var unavailable []string
	for _, id := range input.TeammateUserIDs {
		taken, err := uc.store.Memberships().HasTeam(ctx, id)
		if err != nil {
			return nil, err
		}
		if taken {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		return nil, &domerrors.TeammatesUnavailableError{UserIDs: unavailable}
	}

	project := &domain.Project{
		Title:    input.ProjectName,
		Abstract: fmt.Sprintf("Team created by %s", input.CreatorID),
		ThemeID:  input.ThemeID,
		Status:   domain.ProjectPending,
	}
	err = uc.store.WithinTx(ctx, func(tx ports.Stores) error {
		if err := tx.Projects().Create(ctx, project); err != nil {
			return err
		}
		if err := tx.Memberships().Add(ctx, project.ID, input.CreatorID); err != nil {
			return err
		}
		for _, id := range input.TeammateUserIDs {
			inv := &domain.TeamInvitation{
				ProjectID:     project.ID,
				InvitedUserID: id,
				InviterUserID: input.CreatorID,
				Status:        domain.InvitationPending,
			}
			if err := tx.Invitations().Create(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range input.TeammateUserIDs {
		uc.dispatcher.Dispatch(ctx, id,
			fmt.Sprintf("%s invited you to join '%s' team!", input.CreatorID, input.ProjectName),
			domain.NotificationTypeTeamInvite,
			domain.NotificationData{
				ProjectID:   project.ID,
				InviterID:   input.CreatorID,
				ProjectName: input.ProjectName,
			})
	}

	return &FormTeamResult{ProjectID: project.ID, Invited: len(input.TeammateUserIDs)}, nil
}
