// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/hireview/internal/adapters/backend"
	service "github.com/okian/hireview/internal/app"
	"github.com/okian/hireview/internal/domain/application"
	"github.com/okian/hireview/internal/domain/board"
	"github.com/okian/hireview/internal/domain/posting"
	"github.com/okian/hireview/internal/domain/schedule"
	"github.com/okian/hireview/internal/domain/types"
	"github.com/okian/hireview/internal/domain/view"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// View lifecycle.
	Open(ctx context.Context) (Snapshot, error)
	Get(ctx context.Context, id string) (Snapshot, error)
	Close(ctx context.Context, id string) error
	Refresh(ctx context.Context, id string) (Snapshot, error)

	// View mutations; each returns the re-derived page.
	SetFilter(ctx context.Context, id, text string) (Snapshot, error)
	ToggleSort(ctx context.Context, id string, key view.SortKey) (Snapshot, error)
	SetSort(ctx context.Context, id string, key view.SortKey, dir view.Direction) (Snapshot, error)
	ClearSort(ctx context.Context, id string) (Snapshot, error)
	SetPageSize(ctx context.Context, id string, size int) (Snapshot, error)
	SetPage(ctx context.Context, id string, index int) (Snapshot, error)
	NextPage(ctx context.Context, id string) (Snapshot, error)
	PrevPage(ctx context.Context, id string) (Snapshot, error)
	ToggleRow(ctx context.Context, id string, applicationID int64) (Snapshot, error)
	ToggleAll(ctx context.Context, id string) (Snapshot, error)
	ClearSelection(ctx context.Context, id string) (Snapshot, error)

	// Actions on the filtered rows and selection.
	Export(ctx context.Context, id string) (service.Export, error)
	Schedule(ctx context.Context, id string, req schedule.Request, key string) (service.ScheduleResult, error)

	// Boards and session.
	Jobs(ctx context.Context, q board.JobQuery) (service.JobBoard, error)
	Interviews(ctx context.Context, q board.InterviewQuery) ([]types.Interview, error)

	// Postings, applications and the dashboard.
	Job(ctx context.Context, id int64) (types.Job, error)
	CreateJob(ctx context.Context, d posting.Draft) (service.CreatedJob, error)
	Apply(ctx context.Context, f application.Form, r application.Resume) (service.Submitted, error)
	Dashboard(ctx context.Context) (board.Summary, error)

	Login(ctx context.Context, email, password string) (types.User, error)
	Logout(ctx context.Context) error
	CurrentUser() (types.User, bool)
}

// Snapshot mirrors the read shape returned by view operations.
type Snapshot = service.Snapshot

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	viewsHandler  *ViewsHandler
	boardsHandler *BoardsHandler
	jobsHandler   *JobsHandler
	applyHandler  *ApplicationsHandler
	authHandler   *AuthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		viewsHandler:  NewViewsHandler(deps),
		boardsHandler: NewBoardsHandler(deps),
		jobsHandler:   NewJobsHandler(deps),
		applyHandler:  NewApplicationsHandler(deps),
		authHandler:   NewAuthHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	v := s.viewsHandler
	mux.HandleFunc("POST /views", MetricsMiddleware(v.HandleOpen, "views_open"))
	mux.HandleFunc("GET /views/{id}", MetricsMiddleware(v.HandleGet, "views_get"))
	mux.HandleFunc("DELETE /views/{id}", MetricsMiddleware(v.HandleClose, "views_close"))
	mux.HandleFunc("POST /views/{id}/refresh", MetricsMiddleware(v.HandleRefresh, "views_refresh"))
	mux.HandleFunc("POST /views/{id}/filter", MetricsMiddleware(v.HandleFilter, "views_filter"))
	mux.HandleFunc("POST /views/{id}/sort", MetricsMiddleware(v.HandleSort, "views_sort"))
	mux.HandleFunc("DELETE /views/{id}/sort", MetricsMiddleware(v.HandleClearSort, "views_sort"))
	mux.HandleFunc("POST /views/{id}/page", MetricsMiddleware(v.HandlePage, "views_page"))
	mux.HandleFunc("POST /views/{id}/page-size", MetricsMiddleware(v.HandlePageSize, "views_page_size"))
	mux.HandleFunc("POST /views/{id}/select", MetricsMiddleware(v.HandleSelect, "views_select"))
	mux.HandleFunc("POST /views/{id}/select-all", MetricsMiddleware(v.HandleSelectAll, "views_select"))
	mux.HandleFunc("DELETE /views/{id}/selection", MetricsMiddleware(v.HandleClearSelection, "views_select"))
	mux.HandleFunc("GET /views/{id}/export.csv", MetricsMiddleware(v.HandleExport, "views_export"))
	mux.HandleFunc("POST /views/{id}/schedule", MetricsMiddleware(v.HandleSchedule, "views_schedule"))

	mux.HandleFunc("GET /jobs", MetricsMiddleware(s.boardsHandler.HandleJobs, "jobs"))
	mux.HandleFunc("GET /interviews", MetricsMiddleware(s.boardsHandler.HandleInterviews, "interviews"))
	mux.HandleFunc("GET /jobs/{job_id}", MetricsMiddleware(s.jobsHandler.HandleJob, "job"))
	mux.HandleFunc("POST /jobs", MetricsMiddleware(s.jobsHandler.HandleCreate, "jobs_create"))
	mux.HandleFunc("GET /dashboard", MetricsMiddleware(s.jobsHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("POST /applications", MetricsMiddleware(s.applyHandler.HandleApply, "applications"))

	mux.HandleFunc("POST /login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("POST /logout", MetricsMiddleware(s.authHandler.HandleLogout, "logout"))
	mux.HandleFunc("GET /me", MetricsMiddleware(s.authHandler.HandleMe, "me"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates a domain or upstream error to a status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrViewNotFound):
		return http.StatusNotFound, "view_not_found"
	case errors.Is(err, backend.ErrJobNotFound):
		return http.StatusNotFound, "job_not_found"
	case errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, view.ErrUnknownSortKey),
		errors.Is(err, view.ErrInvalidDirection),
		errors.Is(err, view.ErrInvalidPageSize),
		errors.Is(err, view.ErrInvalidPage),
		errors.Is(err, view.ErrRowNotVisible),
		errors.Is(err, schedule.ErrInvalidRequest),
		errors.Is(err, schedule.ErrNoSelection),
		errors.Is(err, posting.ErrInvalidDraft),
		errors.Is(err, application.ErrInvalidForm):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, schedule.ErrScheduleFailed):
		return http.StatusBadGateway, "schedule_failed"
	case errors.Is(err, backend.ErrUpstream), errors.Is(err, backend.ErrTransport):
		return http.StatusBadGateway, "upstream"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeBody reads a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrBadRequest, err)
	}
	return nil
}
