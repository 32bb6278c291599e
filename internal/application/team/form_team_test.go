package team

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/notify"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/persistence/memory"
)

type noopEnqueuer struct{}

func (noopEnqueuer) EnqueueDeliverNotification(_ context.Context, _ domain.Notification) error {
	return nil
}

func newTestFormTeam(store *memory.Store) *FormTeam {
	dispatcher := notify.NewDispatcher(store.Notifications(), noopEnqueuer{}, zerolog.Nop())
	return NewFormTeam(store, dispatcher)
}

func TestFormTeamMissingFields(t *testing.T) {
	uc := newTestFormTeam(memory.NewStore())
	_, err := uc.Execute(context.Background(), FormTeamInput{CreatorID: "1rv23is071", ThemeID: 2})
	if !errors.Is(err, domerrors.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	_, err = uc.Execute(context.Background(), FormTeamInput{CreatorID: "1rv23is071", ProjectName: "Smart Campus"})
	if !errors.Is(err, domerrors.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestFormTeamCreatorAlreadyInTeam(t *testing.T) {
	store := memory.NewStore()
	uc := newTestFormTeam(store)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, FormTeamInput{CreatorID: "1rv23is071", ProjectName: "First", ThemeID: 1}); err != nil {
		t.Fatalf("first team: %v", err)
	}
	_, err := uc.Execute(ctx, FormTeamInput{CreatorID: "1rv23is071", ProjectName: "Second", ThemeID: 1})
	if !errors.Is(err, domerrors.ErrAlreadyInTeam) {
		t.Fatalf("expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestFormTeamReportsAllUnavailableTeammates(t *testing.T) {
	store := memory.NewStore()
	uc := newTestFormTeam(store)
	ctx := context.Background()

	// b and c take their own teams first.
	if _, err := uc.Execute(ctx, FormTeamInput{CreatorID: "b", ProjectName: "Team B", ThemeID: 1}); err != nil {
		t.Fatalf("team b: %v", err)
	}
	if _, err := uc.Execute(ctx, FormTeamInput{CreatorID: "c", ProjectName: "Team C", ThemeID: 1}); err != nil {
		t.Fatalf("team c: %v", err)
	}

	_, err := uc.Execute(ctx, FormTeamInput{
		CreatorID:       "a",
		ProjectName:     "Team A",
		ThemeID:         1,
		TeammateUserIDs: []string{"b", "c", "d"},
	})
	unavailable := domerrors.AsTeammatesUnavailable(err)
	if unavailable == nil {
		t.Fatalf("expected TeammatesUnavailableError, got %v", err)
	}
	if len(unavailable.UserIDs) != 2 || unavailable.UserIDs[0] != "b" || unavailable.UserIDs[1] != "c" {
		t.Fatalf("expected offending list [b c], got %v", unavailable.UserIDs)
	}

	// Nothing committed: a is still teamless.
	inTeam, err := store.Memberships().HasTeam(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if inTeam {
		t.Fatal("creator should not have a team after failed formation")
	}
}

func TestFormTeamSuccess(t *testing.T) {
	store := memory.NewStore()
	uc := newTestFormTeam(store)
	ctx := context.Background()

	result, err := uc.Execute(ctx, FormTeamInput{
		CreatorID:       "1rv23is071",
		ProjectName:     "Smart Campus",
		ThemeID:         3,
		TeammateUserIDs: []string{"1rv23is072", "1rv23is073"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Invited != 2 {
		t.Fatalf("expected 2 invited, got %d", result.Invited)
	}

	p, err := store.Projects().GetByID(ctx, result.ProjectID)
	if err != nil || p == nil {
		t.Fatalf("project not found: %v", err)
	}
	if p.Status != domain.ProjectPending {
		t.Fatalf("expected Pending project, got %s", p.Status)
	}

	inTeam, _ := store.Memberships().HasTeam(ctx, "1rv23is071")
	if !inTeam {
		t.Fatal("creator should be a team member")
	}
	// Invitees are invited, not joined.
	if inTeam, _ := store.Memberships().HasTeam(ctx, "1rv23is072"); inTeam {
		t.Fatal("invitee should not be a member before accepting")
	}

	for _, id := range []string{"1rv23is072", "1rv23is073"} {
		inv, err := store.Invitations().GetPending(ctx, result.ProjectID, id)
		if err != nil {
			t.Fatal(err)
		}
		if inv == nil || inv.Status != domain.InvitationPending {
			t.Fatalf("expected pending invitation for %s", id)
		}
		rows, err := store.Notifications().ListByRecipient(ctx, id, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 notification for %s, got %d", id, len(rows))
		}
		n := rows[0]
		if n.Type != domain.NotificationTypeTeamInvite {
			t.Fatalf("expected team_invite type, got %s", n.Type)
		}
		if n.Data.ProjectID != result.ProjectID || n.Data.InviterID != "1rv23is071" {
			t.Fatalf("unexpected payload: %+v", n.Data)
		}
	}
}

// failingNotifications wraps the memory repo and rejects every create.
type failingNotifications struct{}

func (failingNotifications) Create(_ context.Context, _ *domain.Notification) error {
	return errors.New("store down")
}
func (failingNotifications) ListByRecipient(_ context.Context, _ string, _ int) ([]domain.Notification, error) {
	return nil, nil
}
func (failingNotifications) ListUnreadAfter(_ context.Context, _ int64, _ int) ([]domain.Notification, error) {
	return nil, nil
}
func (failingNotifications) MarkRead(_ context.Context, _ int64, _ string) (bool, error) {
	return false, nil
}

func TestFormTeamSurvivesNotificationFailure(t *testing.T) {
	store := memory.NewStore()
	dispatcher := notify.NewDispatcher(failingNotifications{}, noopEnqueuer{}, zerolog.Nop())
	uc := NewFormTeam(store, dispatcher)

	result, err := uc.Execute(context.Background(), FormTeamInput{
		CreatorID:       "a",
		ProjectName:     "Resilient",
		ThemeID:         1,
		TeammateUserIDs: []string{"b"},
	})
	if err != nil {
		t.Fatalf("team formation must not fail on notification errors: %v", err)
	}
	inv, err := store.Invitations().GetPending(context.Background(), result.ProjectID, "b")
	if err != nil || inv == nil {
		t.Fatal("invitation should be committed even when notification write fails")
	}
}
