package project

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

// Moderate flips a project's status during admin review.
type Moderate struct {
	store ports.Store
}

// NewModerate builds the use case.
func NewModerate(store ports.Store) *Moderate {
	return &Moderate{store: store}
}

// Approve marks the project Approved.
func (uc *Moderate) Approve(ctx context.Context, projectID int64) error {
	return uc.set(ctx, projectID, domain.ProjectApproved)
}

// Reject marks the project Rejected.
func (uc *Moderate) Reject(ctx context.Context, projectID int64) error {
	return uc.set(ctx, projectID, domain.ProjectRejected)
}

func (uc *Moderate) set(ctx context.Context, projectID int64, status domain.ProjectStatus) error {
	ok, err := uc.store.Projects().SetStatus(ctx, projectID, status)
	if err != nil {
		return err
	}
	if !ok {
		return domerrors.ErrProjectNotFound
	}
	return nil
}
