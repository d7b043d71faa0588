package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/hireview/internal/domain/posting"
)

// JobsHandler handles single postings, job creation and the HR dashboard.
type JobsHandler struct {
	deps Dependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps Dependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleJob handles GET /jobs/{job_id} requests.
func (h *JobsHandler) HandleJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "job_id")
	if err != nil {
		writeFailure(w, err)
		return
	}
	job, err := h.deps.Job(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// HandleCreate handles POST /jobs requests. Omitted fields take the form
// defaults.
func (h *JobsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	d := posting.DefaultDraft()
	if err := decodeBody(r, &d); err != nil {
		writeFailure(w, err)
		return
	}
	created, err := h.deps.CreateJob(r.Context(), d)
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Location", "/jobs/"+strconv.FormatInt(created.JobID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// HandleDashboard handles GET /dashboard requests.
func (h *JobsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.deps.Dashboard(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadRequest, name)
	}
	return id, nil
}
