package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

const createProjectSQL = `
INSERT INTO projects (title, abstract, problem_statement, theme_id, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING project_id, created_at;
`

const getProjectByIDSQL = `
SELECT project_id, title, abstract, problem_statement, theme_id, status, created_at
FROM projects
WHERE project_id = $1;
`

const listProjectsForUserSQL = `
SELECT p.project_id, p.title, p.abstract, p.problem_statement, p.theme_id, p.status, p.created_at
FROM projects p
JOIN team_members tm ON tm.project_id = p.project_id
WHERE tm.user_id = $1
ORDER BY p.project_id DESC
LIMIT $2;
`

const countProjectsByThemeSQL = `
SELECT COUNT(*) FROM projects WHERE theme_id = $1;
`

const setProjectStatusSQL = `
UPDATE projects SET status = $2 WHERE project_id = $1;
`

// ProjectRepository implements ports.ProjectRepository on pgx.
type ProjectRepository struct {
	db dbtx
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.Status == "" {
		p.Status = domain.ProjectUnassigned
	}
	return r.db.QueryRow(ctx, createProjectSQL,
		p.Title, p.Abstract, p.ProblemStatement, p.ThemeID, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	var status string
	err := r.db.QueryRow(ctx, getProjectByIDSQL, id).
		Scan(&p.ID, &p.Title, &p.Abstract, &p.ProblemStatement, &p.ThemeID, &status, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, f ports.ProjectFilter) ([]domain.Project, error) {
	sql := `SELECT project_id, title, abstract, problem_statement, theme_id, status, created_at
FROM projects WHERE 1=1`
	var args []any
	if f.ThemeID != 0 {
		args = append(args, f.ThemeID)
		sql += fmt.Sprintf(" AND theme_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		sql += fmt.Sprintf(" AND status = $%d", len(args))
	}
	sql += " ORDER BY project_id"
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, listProjectsForUserSQL, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *ProjectRepository) CountByTheme(ctx context.Context, themeID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countProjectsByThemeSQL, themeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id int64, status domain.ProjectStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, setProjectStatusSQL, id, string(status))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		var status string
		if err := rows.Scan(&p.ID, &p.Title, &p.Abstract, &p.ProblemStatement, &p.ThemeID, &status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Status = domain.ProjectStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
