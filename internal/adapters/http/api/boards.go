package api

import (
	"net/http"

	"github.com/okian/hireview/internal/domain/board"
)

// BoardsHandler handles the job board and interview list routes.
type BoardsHandler struct {
	deps Dependencies
}

// NewBoardsHandler creates a new boards handler.
func NewBoardsHandler(deps Dependencies) *BoardsHandler {
	return &BoardsHandler{deps: deps}
}

// HandleJobs handles GET /jobs?search=&department=&location=&sort_by=.
func (h *BoardsHandler) HandleJobs(w http.ResponseWriter, r *http.Request) {
	q := board.JobQuery{
		Search:     queryOr(r, "search", ""),
		Department: queryOr(r, "department", board.All),
		Location:   queryOr(r, "location", board.All),
		SortBy:     queryOr(r, "sort_by", board.SortRecent),
	}
	out, err := h.deps.Jobs(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleInterviews handles GET /interviews?search=&status=.
func (h *BoardsHandler) HandleInterviews(w http.ResponseWriter, r *http.Request) {
	q := board.InterviewQuery{
		Search: queryOr(r, "search", ""),
		Status: queryOr(r, "status", board.All),
	}
	list, err := h.deps.Interviews(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
