package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	appproject "github.com/keerthi-manne/EL-management-System/internal/application/project"
	"github.com/keerthi-manne/EL-management-System/internal/application/team"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/middleware"
)

const studentProjectsLimit = 10

// ProjectsHandler handles /projects/*: team formation, submissions,
// listing and admin moderation.
type ProjectsHandler struct {
	formTeam      *team.FormTeam
	createProject *appproject.CreateProject
	moderate      *appproject.Moderate
	projects      ports.ProjectRepository
	memberships   ports.MembershipRepository
	log           zerolog.Logger
}

// NewProjectsHandler wires the project endpoints.
func NewProjectsHandler(formTeam *team.FormTeam, createProject *appproject.CreateProject, moderate *appproject.Moderate, projects ports.ProjectRepository, memberships ports.MembershipRepository, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		formTeam:      formTeam,
		createProject: createProject,
		moderate:      moderate,
		projects:      projects,
		memberships:   memberships,
		log:           log,
	}
}

type createTeamRequest struct {
	ProjectName     string   `json:"projectName"`
	ThemeID         int64    `json:"themeId"`
	TeammateUserIDs []string `json:"teammateUserIds"`
}

// CreateTeam forms a team: project, creator membership and one pending
// invitation per teammate, in one unit. Student role enforced by the
// router.
func (h *ProjectsHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}
	result, err := h.formTeam.Execute(r.Context(), team.FormTeamInput{
		CreatorID:       userID,
		ProjectName:     SanitizeTitle(req.ProjectName),
		ThemeID:         req.ThemeID,
		TeammateUserIDs: req.TeammateUserIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrMissingFields):
			writeErr(w, http.StatusBadRequest, "", "Project name and theme required")
		case errors.Is(err, domerrors.ErrAlreadyInTeam):
			writeErr(w, http.StatusForbidden, ErrCodeAlreadyInTeam, "You are already in a team.")
		case domerrors.AsTeammatesUnavailable(err) != nil:
			t := domerrors.AsTeammatesUnavailable(err)
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":             "These users are already in teams:",
				"code":              ErrCodeAlreadyInTeam,
				"invalid_teammates": t.UserIDs,
			})
		default:
			h.log.Error().Err(err).Str("user", userID).Msg("team creation failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   fmt.Sprintf("Team created! %d teammates notified", result.Invited),
		"ProjectID": result.ProjectID,
	})
}

type createProjectRequest struct {
	Title            string `json:"Title"`
	Abstract         string `json:"Abstract"`
	ProblemStatement string `json:"ProblemStatement"`
	ThemeID          int64  `json:"ThemeID"`
	Status           string `json:"Status"`
}

// Create submits a project directly; the caller must already be in a team.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}
	projectID, err := h.createProject.Execute(r.Context(), appproject.CreateProjectInput{
		CreatorID:        userID,
		Title:            SanitizeTitle(req.Title),
		Abstract:         req.Abstract,
		ProblemStatement: req.ProblemStatement,
		ThemeID:          req.ThemeID,
		Status:           domain.ProjectStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrMissingFields):
			writeErr(w, http.StatusBadRequest, "", "Title and ThemeID are required")
		case errors.Is(err, domerrors.ErrThemeFull):
			writeErr(w, http.StatusForbidden, ErrCodeThemeFull, domerrors.ErrThemeFull.Error())
		case errors.Is(err, domerrors.ErrNoTeam):
			writeErr(w, http.StatusForbidden, "", "You must create or join a team before creating a project.")
		default:
			h.log.Error().Err(err).Str("user", userID).Msg("project creation failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Project created successfully",
		"ProjectID": projectID,
	})
}

type projectJSON struct {
	ProjectID        int64  `json:"ProjectID"`
	Title            string `json:"Title"`
	Abstract         string `json:"Abstract"`
	ProblemStatement string `json:"ProblemStatement"`
	ThemeID          int64  `json:"ThemeID"`
	Status           string `json:"Status"`
}

func toProjectJSON(p domain.Project) projectJSON {
	return projectJSON{
		ProjectID:        p.ID,
		Title:            p.Title,
		Abstract:         p.Abstract,
		ProblemStatement: p.ProblemStatement,
		ThemeID:          p.ThemeID,
		Status:           string(p.Status),
	}
}

// List returns all projects, optionally filtered by theme_id and status.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	var f ports.ProjectFilter
	if t := r.URL.Query().Get("theme_id"); t != "" {
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid theme_id")
			return
		}
		f.ThemeID = id
	}
	if s := r.URL.Query().Get("status"); s != "" {
		f.Status = domain.ProjectStatus(s)
	}
	rows, err := h.projects.List(r.Context(), f)
	if err != nil {
		h.log.Error().Err(err).Msg("project list failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]projectJSON, 0, len(rows))
	for _, p := range rows {
		items = append(items, toProjectJSON(p))
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one project by id.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	p, err := h.projects.GetByID(r.Context(), projectID)
	if err != nil {
		h.log.Error().Err(err).Int64("project_id", projectID).Msg("project get failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if p == nil {
		writeErr(w, http.StatusNotFound, "", "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, toProjectJSON(*p))
}

// ListMine returns the caller's team projects, newest first.
func (h *ProjectsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	rows, err := h.projects.ListForUser(r.Context(), userID, studentProjectsLimit)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("student projects failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]projectJSON, 0, len(rows))
	for _, p := range rows {
		items = append(items, toProjectJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": items})
}

type memberJSON struct {
	UserID string `json:"UserID"`
}

// TeamMembers returns the project's team member ids.
func (h *ProjectsHandler) TeamMembers(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	members, err := h.memberships.ListByProject(r.Context(), projectID)
	if err != nil {
		h.log.Error().Err(err).Int64("project_id", projectID).Msg("team members query failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]memberJSON, 0, len(members))
	for _, m := range members {
		items = append(items, memberJSON{UserID: m.UserID})
	}
	writeJSON(w, http.StatusOK, items)
}

// Approve marks a project Approved (admin moderation).
func (h *ProjectsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderateStatus(w, r, h.moderate.Approve, "Project approved successfully")
}

// Reject marks a project Rejected (admin moderation).
func (h *ProjectsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderateStatus(w, r, h.moderate.Reject, "Project rejected")
}

func (h *ProjectsHandler) moderateStatus(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, projectID int64) error, message string) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	if err := fn(r.Context(), projectID); err != nil {
		if errors.Is(err, domerrors.ErrProjectNotFound) {
			writeErr(w, http.StatusNotFound, "", "Project not found")
			return
		}
		h.log.Error().Err(err).Int64("project_id", projectID).Msg("project moderation failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
