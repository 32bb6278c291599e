package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/notify"
	appproject "github.com/keerthi-manne/EL-management-System/internal/application/project"
	"github.com/keerthi-manne/EL-management-System/internal/application/team"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/middleware"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/persistence/memory"
)

type projectsEnv struct {
	store  *memory.Store
	router chi.Router
}

func newProjectsEnv(t *testing.T, themeCap int) *projectsEnv {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	dispatcher := notify.NewDispatcher(store.Notifications(), noopEnqueuer{}, log)
	h := NewProjectsHandler(
		team.NewFormTeam(store, dispatcher),
		appproject.NewCreateProject(store, themeCap),
		appproject.NewModerate(store),
		store.Projects(),
		store.Memberships(),
		log,
	)

	r := chi.NewRouter()
	r.Use(testAuth)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/student", h.ListMine)
		r.Get("/{projectID}", h.Get)
		r.Get("/{projectID}/team-members", h.TeamMembers)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleStudent))
			r.Post("/", h.Create)
			r.Post("/create-team", h.CreateTeam)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/{projectID}/approve", h.Approve)
			r.Post("/{projectID}/reject", h.Reject)
		})
	})
	return &projectsEnv{store: store, router: r}
}

func (e *projectsEnv) do(t *testing.T, method, path, user, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
		req.Header.Set("X-Test-Role", role)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateTeamEndpoint(t *testing.T) {
	env := newProjectsEnv(t, 0)

	rec := env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"projectName":"Smart Campus","themeId":2,"teammateUserIds":["bob","carol"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Message   string `json:"message"`
		ProjectID int64  `json:"ProjectID"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ProjectID == 0 || !strings.Contains(resp.Message, "2 teammates notified") {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Creator cannot form a second team.
	rec = env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"projectName":"Again","themeId":2}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCreateTeamReportsUnavailableTeammates(t *testing.T) {
	env := newProjectsEnv(t, 0)
	env.do(t, http.MethodPost, "/projects/create-team", "bob", "Student",
		`{"projectName":"Team B","themeId":1}`)

	rec := env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"projectName":"Team A","themeId":1,"teammateUserIds":["bob","dave"]}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		InvalidTeammates []string `json:"invalid_teammates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.InvalidTeammates) != 1 || resp.InvalidTeammates[0] != "bob" {
		t.Fatalf("expected [bob], got %v", resp.InvalidTeammates)
	}
}

func TestCreateTeamValidation(t *testing.T) {
	env := newProjectsEnv(t, 0)
	rec := env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"teammateUserIds":["bob"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateTeamRequiresStudentRole(t *testing.T) {
	env := newProjectsEnv(t, 0)
	rec := env.do(t, http.MethodPost, "/projects/create-team", "admin1", "Admin",
		`{"projectName":"Nope","themeId":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-student, got %d", rec.Code)
	}
}

func TestProjectThemeCapEndpoint(t *testing.T) {
	env := newProjectsEnv(t, 1)
	env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"projectName":"First","themeId":1}`)

	// alice is in a team but theme 1 is full.
	rec := env.do(t, http.MethodPost, "/projects/", "alice", "Student",
		`{"Title":"Second","ThemeID":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 theme full, got %d: %s", rec.Code, rec.Body)
	}
	rec = env.do(t, http.MethodPost, "/projects/", "alice", "Student",
		`{"Title":"Second","ThemeID":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for open theme, got %d: %s", rec.Code, rec.Body)
	}
}

func TestProjectListingAndMembers(t *testing.T) {
	env := newProjectsEnv(t, 0)
	env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"projectName":"Listed","themeId":3}`)

	rec := env.do(t, http.MethodGet, "/projects/?theme_id=3", "viewer", "Student", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var projects []struct {
		ProjectID int64  `json:"ProjectID"`
		Title     string `json:"Title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Title != "Listed" {
		t.Fatalf("unexpected list: %+v", projects)
	}

	rec = env.do(t, http.MethodGet, "/projects/1/team-members", "viewer", "Student", "")
	var members []struct {
		UserID string `json:"UserID"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &members); err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0].UserID != "alice" {
		t.Fatalf("unexpected members: %+v", members)
	}

	rec = env.do(t, http.MethodGet, "/projects/student", "alice", "Student", "")
	var mine struct {
		Projects []struct {
			Title string `json:"Title"`
		} `json:"projects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatal(err)
	}
	if len(mine.Projects) != 1 {
		t.Fatalf("expected 1 project for alice, got %d", len(mine.Projects))
	}

	rec = env.do(t, http.MethodGet, "/projects/999", "viewer", "Student", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing project, got %d", rec.Code)
	}
}

func TestModerationEndpoints(t *testing.T) {
	env := newProjectsEnv(t, 0)
	env.do(t, http.MethodPost, "/projects/create-team", "alice", "Student",
		`{"projectName":"Judged","themeId":1}`)

	// Students cannot moderate.
	rec := env.do(t, http.MethodPost, "/projects/1/approve", "alice", "Student", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/projects/1/approve", "admin1", "Admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = env.do(t, http.MethodGet, "/projects/1", "viewer", "Student", "")
	var p struct {
		Status string `json:"Status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Status != "Approved" {
		t.Fatalf("expected Approved, got %s", p.Status)
	}

	rec = env.do(t, http.MethodPost, "/projects/999/reject", "admin1", "Admin", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
