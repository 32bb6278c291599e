package project

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

// CreateProjectInput is a direct project submission by a student who is
// already in a team (team formation creates projects on its own path).
type CreateProjectInput struct {
	CreatorID        string
	Title            string
	Abstract         string
	ProblemStatement string
	ThemeID          int64
	Status           domain.ProjectStatus
}

// CreateProject creates a project under a theme, capped per theme.
type CreateProject struct {
	store    ports.Store
	themeCap int
}

// NewCreateProject builds the use case. themeCap <= 0 disables the cap.
func NewCreateProject(store ports.Store, themeCap int) *CreateProject {
	return &CreateProject{store: store, themeCap: themeCap}
}

// Execute validates and inserts the project, returning its id.
func (uc *CreateProject) Execute(ctx context.Context, input CreateProjectInput) (int64, error) {
	if input.Title == "" || input.ThemeID == 0 {
		return 0, domerrors.ErrMissingFields
	}
	if uc.themeCap > 0 {
		count, err := uc.store.Projects().CountByTheme(ctx, input.ThemeID)
		if err != nil {
			return 0, err
		}
		if count >= uc.themeCap {
			return 0, domerrors.ErrThemeFull
		}
	}
	inTeam, err := uc.store.Memberships().HasTeam(ctx, input.CreatorID)
	if err != nil {
		return 0, err
	}
	if !inTeam {
		return 0, domerrors.ErrNoTeam
	}
	status := input.Status
	if status == "" {
		status = domain.ProjectUnassigned
	}
	p := &domain.Project{
		Title:            input.Title,
		Abstract:         input.Abstract,
		ProblemStatement: input.ProblemStatement,
		ThemeID:          input.ThemeID,
		Status:           status,
	}
	if err := uc.store.Projects().Create(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}
