package team

import (
	"context"
	"fmt"

	"github.com/keerthi-manne/EL-management-System/internal/application/notify"
	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

// fallbackProjectTitle is used in the acceptance notification when the
// project row cannot be loaded.
const fallbackProjectTitle = "Team Project"

// RespondInvitation lets an invited user accept or reject their own
// pending invitation. Pending -> Accepted and Pending -> Rejected are the
// only legal transitions; both are terminal, so a second call finds no
// pending row and fails with not-found.
type RespondInvitation struct {
	store      ports.Store
	dispatcher *notify.Dispatcher
}

// NewRespondInvitation builds the use case.
func NewRespondInvitation(store ports.Store, dispatcher *notify.Dispatcher) *RespondInvitation {
	return &RespondInvitation{store: store, dispatcher: dispatcher}
}

// Approve joins the caller to the project's team and resolves the
// invitation, atomically. The membership insert and the status flip
// commit together; the conditional status update is the only guard
// against two racing approvals. The reciprocal notification to the
// inviter is best-effort after commit.
func (uc *RespondInvitation) Approve(ctx context.Context, projectID int64, callerID string) error {
	var inviterID string
	err := uc.store.WithinTx(ctx, func(tx ports.Stores) error {
		inv, err := tx.Invitations().GetPending(ctx, projectID, callerID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domerrors.ErrInvitationNotFound
		}
		inviterID = inv.InviterUserID
		if err := tx.Memberships().Add(ctx, projectID, callerID); err != nil {
			return err
		}
		ok, err := tx.Invitations().ResolvePending(ctx, projectID, callerID, domain.InvitationAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return domerrors.ErrInvitationNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	title := fallbackProjectTitle
	if p, err := uc.store.Projects().GetByID(ctx, projectID); err == nil && p != nil {
		title = p.Title
	}
	uc.dispatcher.Dispatch(ctx, inviterID,
		fmt.Sprintf("%s accepted your team invitation for '%s'!", callerID, title),
		domain.NotificationTypeTeamJoined,
		domain.NotificationData{ProjectID: projectID, JoinedUserID: callerID})

	return nil
}

// Reject resolves the caller's pending invitation to Rejected. No
// notification is sent.
func (uc *RespondInvitation) Reject(ctx context.Context, projectID int64, callerID string) error {
	ok, err := uc.store.Invitations().ResolvePending(ctx, projectID, callerID, domain.InvitationRejected)
	if err != nil {
		return err
	}
	if !ok {
		return domerrors.ErrInvitationNotFound
	}
	return nil
}
