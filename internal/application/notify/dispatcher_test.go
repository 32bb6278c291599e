package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/domain"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/persistence/memory"
)

type recordingEnqueuer struct {
	notifications []domain.Notification
	fail          bool
}

func (e *recordingEnqueuer) EnqueueDeliverNotification(_ context.Context, n domain.Notification) error {
	if e.fail {
		return errors.New("queue down")
	}
	e.notifications = append(e.notifications, n)
	return nil
}

type brokenNotifications struct{}

func (brokenNotifications) Create(_ context.Context, _ *domain.Notification) error {
	return errors.New("store down")
}
func (brokenNotifications) ListByRecipient(_ context.Context, _ string, _ int) ([]domain.Notification, error) {
	return nil, errors.New("store down")
}
func (brokenNotifications) ListUnreadAfter(_ context.Context, _ int64, _ int) ([]domain.Notification, error) {
	return nil, errors.New("store down")
}
func (brokenNotifications) MarkRead(_ context.Context, _ int64, _ string) (bool, error) {
	return false, errors.New("store down")
}

func TestDispatchPersistsAndEnqueues(t *testing.T) {
	store := memory.NewStore()
	enq := &recordingEnqueuer{}
	d := NewDispatcher(store.Notifications(), enq, zerolog.Nop())
	ctx := context.Background()

	d.Dispatch(ctx, "bob", "hello", domain.NotificationTypeInfo, domain.NotificationData{})

	rows, err := store.Notifications().ListByRecipient(ctx, "bob", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rows))
	}
	if rows[0].Status != domain.NotificationUnread {
		t.Fatalf("expected Unread, got %s", rows[0].Status)
	}
	if len(enq.notifications) != 1 || enq.notifications[0].ID != rows[0].ID {
		t.Fatal("expected the stored row mirrored onto the queue")
	}
}

func TestDispatchDefaultsEmptyType(t *testing.T) {
	store := memory.NewStore()
	d := NewDispatcher(store.Notifications(), &recordingEnqueuer{}, zerolog.Nop())

	d.Dispatch(context.Background(), "bob", "plain", "", domain.NotificationData{})

	rows, _ := store.Notifications().ListByRecipient(context.Background(), "bob", 10)
	if len(rows) != 1 || rows[0].Type != domain.NotificationTypeInfo {
		t.Fatalf("expected info type, got %+v", rows)
	}
}

func TestDispatchDropsOnStoreFailure(t *testing.T) {
	enq := &recordingEnqueuer{}
	d := NewDispatcher(brokenNotifications{}, enq, zerolog.Nop())

	// Must not panic or surface the failure.
	d.Dispatch(context.Background(), "bob", "lost", domain.NotificationTypeInfo, domain.NotificationData{})

	if len(enq.notifications) != 0 {
		t.Fatal("nothing should be enqueued when the write fails")
	}
}

func TestDispatchToleratesEnqueueFailure(t *testing.T) {
	store := memory.NewStore()
	d := NewDispatcher(store.Notifications(), &recordingEnqueuer{fail: true}, zerolog.Nop())
	ctx := context.Background()

	d.Dispatch(ctx, "bob", "kept", domain.NotificationTypeInfo, domain.NotificationData{})

	// The in-app row survives a queue outage.
	rows, _ := store.Notifications().ListByRecipient(ctx, "bob", 10)
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rows))
	}
}
