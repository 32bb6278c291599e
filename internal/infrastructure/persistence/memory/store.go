// Package memory is an in-memory ports.Store for tests and single-node
// development runs (no DATABASE_URL). Transactions take the store lock
// and work on a copy, so a failed unit of work leaves no trace.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
)

type state struct {
	notifications []domain.Notification
	memberships   []domain.TeamMembership
	invitations   []domain.TeamInvitation
	projects      []domain.Project

	nextNotificationID int64
	nextProjectID      int64
	nextInvitationID   int64
}

func newState() *state {
	return &state{nextNotificationID: 1, nextProjectID: 1, nextInvitationID: 1}
}

func (st *state) clone() *state {
	cp := *st
	cp.notifications = append([]domain.Notification(nil), st.notifications...)
	cp.memberships = append([]domain.TeamMembership(nil), st.memberships...)
	cp.invitations = append([]domain.TeamInvitation(nil), st.invitations...)
	cp.projects = append([]domain.Project(nil), st.projects...)
	return &cp
}

// Store implements ports.Store over process memory.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// WithinTx runs fn on a copy of the state and swaps it in on success.
// The store lock is held for the whole unit, so units never interleave.
func (s *Store) WithinTx(_ context.Context, fn func(tx ports.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.st.clone()
	if err := fn(&txStores{st: clone}); err != nil {
		return err
	}
	s.st = clone
	return nil
}

func (s *Store) Notifications() ports.NotificationRepository { return &notificationRepo{s: s} }
func (s *Store) Memberships() ports.MembershipRepository     { return &membershipRepo{s: s} }
func (s *Store) Invitations() ports.InvitationRepository     { return &invitationRepo{s: s} }
func (s *Store) Projects() ports.ProjectRepository           { return &projectRepo{s: s} }

// txStores exposes the same repositories bound to an uncommitted state.
// No locking: the transaction already holds the store lock.
type txStores struct {
	st *state
}

func (t *txStores) Notifications() ports.NotificationRepository { return &notificationRepo{st: t.st} }
func (t *txStores) Memberships() ports.MembershipRepository     { return &membershipRepo{st: t.st} }
func (t *txStores) Invitations() ports.InvitationRepository     { return &invitationRepo{st: t.st} }
func (t *txStores) Projects() ports.ProjectRepository           { return &projectRepo{st: t.st} }

// repos hold either a locked store or a transaction-local state.

type notificationRepo struct {
	s  *Store
	st *state
}

func (r *notificationRepo) state() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.s.mu.Lock()
	return r.s.st, r.s.mu.Unlock
}

func (r *notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	st, unlock := r.state()
	defer unlock()
	n.ID = st.nextNotificationID
	st.nextNotificationID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Status == "" {
		n.Status = domain.NotificationUnread
	}
	st.notifications = append(st.notifications, *n)
	return nil
}

func (r *notificationRepo) ListByRecipient(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	st, unlock := r.state()
	defer unlock()
	var out []domain.Notification
	for _, n := range st.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepo) ListUnreadAfter(_ context.Context, afterID int64, limit int) ([]domain.Notification, error) {
	st, unlock := r.state()
	defer unlock()
	var out []domain.Notification
	for _, n := range st.notifications {
		if n.Status == domain.NotificationUnread && n.ID > afterID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id int64, userID string) (bool, error) {
	st, unlock := r.state()
	defer unlock()
	for i := range st.notifications {
		if st.notifications[i].ID == id && st.notifications[i].UserID == userID {
			st.notifications[i].Status = domain.NotificationRead
			return true, nil
		}
	}
	return false, nil
}

type membershipRepo struct {
	s  *Store
	st *state
}

func (r *membershipRepo) state() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.s.mu.Lock()
	return r.s.st, r.s.mu.Unlock
}

func (r *membershipRepo) Add(_ context.Context, projectID int64, userID string) error {
	st, unlock := r.state()
	defer unlock()
	for _, m := range st.memberships {
		if m.UserID == userID {
			return domerrors.ErrAlreadyInTeam
		}
	}
	st.memberships = append(st.memberships, domain.TeamMembership{
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *membershipRepo) HasTeam(_ context.Context, userID string) (bool, error) {
	st, unlock := r.state()
	defer unlock()
	for _, m := range st.memberships {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *membershipRepo) ListByProject(_ context.Context, projectID int64) ([]domain.TeamMembership, error) {
	st, unlock := r.state()
	defer unlock()
	var out []domain.TeamMembership
	for _, m := range st.memberships {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

type invitationRepo struct {
	s  *Store
	st *state
}

func (r *invitationRepo) state() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.s.mu.Lock()
	return r.s.st, r.s.mu.Unlock
}

func (r *invitationRepo) Create(_ context.Context, inv *domain.TeamInvitation) error {
	st, unlock := r.state()
	defer unlock()
	inv.ID = st.nextInvitationID
	st.nextInvitationID++
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	if inv.Status == "" {
		inv.Status = domain.InvitationPending
	}
	st.invitations = append(st.invitations, *inv)
	return nil
}

func (r *invitationRepo) GetPending(_ context.Context, projectID int64, invitedUserID string) (*domain.TeamInvitation, error) {
	st, unlock := r.state()
	defer unlock()
	for _, inv := range st.invitations {
		if inv.ProjectID == projectID && inv.InvitedUserID == invitedUserID && inv.Status == domain.InvitationPending {
			cp := inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *invitationRepo) ResolvePending(_ context.Context, projectID int64, invitedUserID string, to domain.InvitationStatus) (bool, error) {
	st, unlock := r.state()
	defer unlock()
	resolved := false
	for i := range st.invitations {
		inv := &st.invitations[i]
		if inv.ProjectID == projectID && inv.InvitedUserID == invitedUserID && inv.Status == domain.InvitationPending {
			inv.Status = to
			resolved = true
		}
	}
	return resolved, nil
}

type projectRepo struct {
	s  *Store
	st *state
}

func (r *projectRepo) state() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.s.mu.Lock()
	return r.s.st, r.s.mu.Unlock
}

func (r *projectRepo) Create(_ context.Context, p *domain.Project) error {
	st, unlock := r.state()
	defer unlock()
	p.ID = st.nextProjectID
	st.nextProjectID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Status == "" {
		p.Status = domain.ProjectUnassigned
	}
	st.projects = append(st.projects, *p)
	return nil
}

func (r *projectRepo) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	st, unlock := r.state()
	defer unlock()
	for _, p := range st.projects {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *projectRepo) List(_ context.Context, f ports.ProjectFilter) ([]domain.Project, error) {
	st, unlock := r.state()
	defer unlock()
	var out []domain.Project
	for _, p := range st.projects {
		if f.ThemeID != 0 && p.ThemeID != f.ThemeID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *projectRepo) ListForUser(_ context.Context, userID string, limit int) ([]domain.Project, error) {
	st, unlock := r.state()
	defer unlock()
	mine := make(map[int64]bool)
	for _, m := range st.memberships {
		if m.UserID == userID {
			mine[m.ProjectID] = true
		}
	}
	var out []domain.Project
	for _, p := range st.projects {
		if mine[p.ID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *projectRepo) CountByTheme(_ context.Context, themeID int64) (int, error) {
	st, unlock := r.state()
	defer unlock()
	count := 0
	for _, p := range st.projects {
		if p.ThemeID == themeID {
			count++
		}
	}
	return count, nil
}

func (r *projectRepo) SetStatus(_ context.Context, id int64, status domain.ProjectStatus) (bool, error) {
	st, unlock := r.state()
	defer unlock()
	for i := range st.projects {
		if st.projects[i].ID == id {
			st.projects[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

var _ ports.Store = (*Store)(nil)
