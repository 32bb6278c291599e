package project

import (
	"context"
	"errors"
	"testing"

	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/persistence/memory"
)

func addMember(t *testing.T, store *memory.Store, userID string, themeID int64) int64 {
	t.Helper()
	ctx := context.Background()
	p := &domain.Project{Title: "Host", ThemeID: themeID, Status: domain.ProjectPending}
	if err := store.Projects().Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := store.Memberships().Add(ctx, p.ID, userID); err != nil {
		t.Fatal(err)
	}
	return p.ID
}

func TestCreateProjectRequiresTitleAndTheme(t *testing.T) {
	uc := NewCreateProject(memory.NewStore(), 0)
	if _, err := uc.Execute(context.Background(), CreateProjectInput{CreatorID: "a", ThemeID: 1}); !errors.Is(err, domerrors.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), CreateProjectInput{CreatorID: "a", Title: "X"}); !errors.Is(err, domerrors.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestCreateProjectRequiresTeam(t *testing.T) {
	uc := NewCreateProject(memory.NewStore(), 0)
	_, err := uc.Execute(context.Background(), CreateProjectInput{CreatorID: "loner", Title: "Solo", ThemeID: 1})
	if !errors.Is(err, domerrors.ErrNoTeam) {
		t.Fatalf("expected ErrNoTeam, got %v", err)
	}
}

func TestCreateProjectThemeCap(t *testing.T) {
	store := memory.NewStore()
	addMember(t, store, "a", 1) // one project already under theme 1
	uc := NewCreateProject(store, 1)

	_, err := uc.Execute(context.Background(), CreateProjectInput{CreatorID: "a", Title: "Over", ThemeID: 1})
	if !errors.Is(err, domerrors.ErrThemeFull) {
		t.Fatalf("expected ErrThemeFull, got %v", err)
	}

	// Other themes are unaffected.
	if _, err := uc.Execute(context.Background(), CreateProjectInput{CreatorID: "a", Title: "Fine", ThemeID: 2}); err != nil {
		t.Fatalf("theme 2 should be open: %v", err)
	}
}

func TestCreateProjectDefaultsStatus(t *testing.T) {
	store := memory.NewStore()
	addMember(t, store, "a", 1)
	uc := NewCreateProject(store, 0)
	ctx := context.Background()

	id, err := uc.Execute(ctx, CreateProjectInput{CreatorID: "a", Title: "New", ThemeID: 2})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	p, err := store.Projects().GetByID(ctx, id)
	if err != nil || p == nil {
		t.Fatalf("project not found: %v", err)
	}
	if p.Status != domain.ProjectUnassigned {
		t.Fatalf("expected Unassigned default, got %s", p.Status)
	}
}

func TestModerate(t *testing.T) {
	store := memory.NewStore()
	projectID := addMember(t, store, "a", 1)
	uc := NewModerate(store)
	ctx := context.Background()

	if err := uc.Approve(ctx, projectID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	p, _ := store.Projects().GetByID(ctx, projectID)
	if p.Status != domain.ProjectApproved {
		t.Fatalf("expected Approved, got %s", p.Status)
	}

	if err := uc.Reject(ctx, projectID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	p, _ = store.Projects().GetByID(ctx, projectID)
	if p.Status != domain.ProjectRejected {
		t.Fatalf("expected Rejected, got %s", p.Status)
	}

	if err := uc.Approve(ctx, 9999); !errors.Is(err, domerrors.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
