package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx ports.Stores) error {
		p := &domain.Project{Title: "Doomed", ThemeID: 1, Status: domain.ProjectPending}
		if err := tx.Projects().Create(ctx, p); err != nil {
			return err
		}
		if err := tx.Memberships().Add(ctx, p.ID, "alice"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	rows, err := store.Projects().List(ctx, ports.ProjectFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty store after rollback, got %d projects", len(rows))
	}
	if inTeam, _ := store.Memberships().HasTeam(ctx, "alice"); inTeam {
		t.Fatal("membership should have rolled back")
	}
}

func TestWithinTxCommits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var projectID int64
	err := store.WithinTx(ctx, func(tx ports.Stores) error {
		p := &domain.Project{Title: "Kept", ThemeID: 1, Status: domain.ProjectPending}
		if err := tx.Projects().Create(ctx, p); err != nil {
			return err
		}
		projectID = p.ID
		return tx.Memberships().Add(ctx, p.ID, "alice")
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := store.Projects().GetByID(ctx, projectID)
	if err != nil || p == nil {
		t.Fatalf("project not committed: %v", err)
	}
	if inTeam, _ := store.Memberships().HasTeam(ctx, "alice"); !inTeam {
		t.Fatal("membership not committed")
	}
}

func TestOneTeamPerUser(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Memberships().Add(ctx, 1, "alice"); err != nil {
		t.Fatal(err)
	}
	err := store.Memberships().Add(ctx, 2, "alice")
	if !errors.Is(err, domerrors.ErrAlreadyInTeam) {
		t.Fatalf("expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestResolvePendingIsTerminal(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	inv := &domain.TeamInvitation{ProjectID: 1, InvitedUserID: "bob", InviterUserID: "alice", Status: domain.InvitationPending}
	if err := store.Invitations().Create(ctx, inv); err != nil {
		t.Fatal(err)
	}

	ok, err := store.Invitations().ResolvePending(ctx, 1, "bob", domain.InvitationAccepted)
	if err != nil || !ok {
		t.Fatalf("first resolve: ok=%v err=%v", ok, err)
	}
	ok, err = store.Invitations().ResolvePending(ctx, 1, "bob", domain.InvitationRejected)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("resolved invitation must not resolve again")
	}
}

func TestReinviteAfterResolution(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := &domain.TeamInvitation{ProjectID: 1, InvitedUserID: "bob", InviterUserID: "alice", Status: domain.InvitationPending}
	if err := store.Invitations().Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Invitations().ResolvePending(ctx, 1, "bob", domain.InvitationRejected); err != nil {
		t.Fatal(err)
	}

	// A fresh invitation for the same pair is a new row.
	second := &domain.TeamInvitation{ProjectID: 1, InvitedUserID: "bob", InviterUserID: "alice", Status: domain.InvitationPending}
	if err := store.Invitations().Create(ctx, second); err != nil {
		t.Fatal(err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a new invitation id")
	}
	pending, err := store.Invitations().GetPending(ctx, 1, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if pending == nil || pending.ID != second.ID {
		t.Fatalf("expected the new invitation pending, got %+v", pending)
	}
}

func TestNotificationListing(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := &domain.Notification{UserID: "bob", Message: "m", Type: domain.NotificationTypeInfo}
		if err := store.Notifications().Create(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	// Inbox is newest first.
	rows, err := store.Notifications().ListByRecipient(ctx, "bob", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].ID != 3 || rows[2].ID != 1 {
		t.Fatalf("unexpected inbox order: %+v", rows)
	}

	// Feed polling is oldest first past the watermark.
	unread, err := store.Notifications().ListUnreadAfter(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 2 || unread[0].ID != 2 || unread[1].ID != 3 {
		t.Fatalf("unexpected feed order: %+v", unread)
	}

	// Read rows drop out of the feed but stay in the inbox.
	if ok, err := store.Notifications().MarkRead(ctx, 2, "bob"); err != nil || !ok {
		t.Fatalf("mark read: ok=%v err=%v", ok, err)
	}
	unread, _ = store.Notifications().ListUnreadAfter(ctx, 0, 10)
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread rows, got %d", len(unread))
	}
	rows, _ = store.Notifications().ListByRecipient(ctx, "bob", 10)
	if len(rows) != 3 {
		t.Fatalf("inbox should keep read rows, got %d", len(rows))
	}

	// MarkRead is owner-scoped.
	if ok, _ := store.Notifications().MarkRead(ctx, 1, "mallory"); ok {
		t.Fatal("cross-user mark read must fail")
	}
}

func TestProjectFilters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []domain.Project{
		{Title: "A", ThemeID: 1, Status: domain.ProjectPending},
		{Title: "B", ThemeID: 1, Status: domain.ProjectApproved},
		{Title: "C", ThemeID: 2, Status: domain.ProjectPending},
	}
	for i := range seed {
		if err := store.Projects().Create(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := store.Projects().List(ctx, ports.ProjectFilter{ThemeID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("theme filter: expected 2, got %d", len(rows))
	}
	rows, _ = store.Projects().List(ctx, ports.ProjectFilter{Status: domain.ProjectPending})
	if len(rows) != 2 {
		t.Fatalf("status filter: expected 2, got %d", len(rows))
	}
	count, err := store.Projects().CountByTheme(ctx, 1)
	if err != nil || count != 2 {
		t.Fatalf("count by theme: %d err=%v", count, err)
	}
}
