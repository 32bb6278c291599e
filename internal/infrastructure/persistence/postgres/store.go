// Package postgres implements ports.Store on pgx. Repositories run
// against the pool directly; WithinTx rebinds them to a single
// transaction so a unit of work commits or rolls back as a whole.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements ports.Store over a pgx pool.
type Store struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewStore wraps the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

func (s *Store) Notifications() ports.NotificationRepository { return &NotificationRepository{db: s.db} }
func (s *Store) Memberships() ports.MembershipRepository     { return &MembershipRepository{db: s.db} }
func (s *Store) Invitations() ports.InvitationRepository     { return &InvitationRepository{db: s.db} }
func (s *Store) Projects() ports.ProjectRepository           { return &ProjectRepository{db: s.db} }

// WithinTx begins a transaction, runs fn against tx-bound repositories,
// and commits on nil return. Any error rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Stores) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(&Store{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ ports.Store = (*Store)(nil)
