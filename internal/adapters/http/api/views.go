package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/hireview/internal/domain/export"
	"github.com/okian/hireview/internal/domain/schedule"
	"github.com/okian/hireview/internal/domain/view"
)

// IdempotencyHeader carries the client key that makes a schedule call safe
// to retry.
const IdempotencyHeader = "Idempotency-Key"

// ViewsHandler handles the applicant table view routes.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

type filterRequest struct {
	Text string `json:"text"`
}

// sortRequest toggles Key when Direction is empty and sets it otherwise.
type sortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction,omitempty"`
}

// pageRequest moves to Index, or one page when Move is "next" or "prev".
type pageRequest struct {
	Index *int   `json:"index,omitempty"`
	Move  string `json:"move,omitempty"`
}

type pageSizeRequest struct {
	Size int `json:"size"`
}

type selectRequest struct {
	ApplicationID int64 `json:"application_id"`
}

type scheduleFailure struct {
	errorResponse
	Scheduled []int64 `json:"scheduled"`
	FailedID  int64   `json:"failed_id,omitempty"`
}

// HandleOpen handles POST /views requests.
func (h *ViewsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.Open(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Location", "/views/"+snap.ViewID)
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGet handles GET /views/{id} requests.
func (h *ViewsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.deps.Get)
}

// HandleClose handles DELETE /views/{id} requests.
func (h *ViewsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Close(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh handles POST /views/{id}/refresh requests.
func (h *ViewsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.deps.Refresh)
}

// HandleFilter handles POST /views/{id}/filter requests.
func (h *ViewsHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	var body filterRequest
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (Snapshot, error) {
		return h.deps.SetFilter(ctx, id, body.Text)
	})
}

// HandleSort handles POST /views/{id}/sort requests.
func (h *ViewsHandler) HandleSort(w http.ResponseWriter, r *http.Request) {
	var body sortRequest
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, err)
		return
	}
	key := view.SortKey(body.Key)
	if body.Direction == "" {
		h.respond(w, r, func(ctx context.Context, id string) (Snapshot, error) {
			return h.deps.ToggleSort(ctx, id, key)
		})
		return
	}
	dir, err := view.ParseDirection(body.Direction)
	if err != nil {
		writeFailure(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (Snapshot, error) {
		return h.deps.SetSort(ctx, id, key, dir)
	})
}

// HandleClearSort handles DELETE /views/{id}/sort requests.
func (h *ViewsHandler) HandleClearSort(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.deps.ClearSort)
}

// HandlePage handles POST /views/{id}/page requests.
func (h *ViewsHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	var body pageRequest
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, err)
		return
	}
	switch {
	case body.Index != nil && body.Move == "":
		index := *body.Index
		h.respond(w, r, func(ctx context.Context, id string) (Snapshot, error) {
			return h.deps.SetPage(ctx, id, index)
		})
	case body.Index == nil && body.Move == "next":
		h.respond(w, r, h.deps.NextPage)
	case body.Index == nil && body.Move == "prev":
		h.respond(w, r, h.deps.PrevPage)
	default:
		writeFailure(w, fmt.Errorf("%w: set exactly one of index or move (next, prev)", ErrBadRequest))
	}
}

// HandlePageSize handles POST /views/{id}/page-size requests.
func (h *ViewsHandler) HandlePageSize(w http.ResponseWriter, r *http.Request) {
	var body pageSizeRequest
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (Snapshot, error) {
		return h.deps.SetPageSize(ctx, id, body.Size)
	})
}

// HandleSelect handles POST /views/{id}/select requests.
func (h *ViewsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (Snapshot, error) {
		return h.deps.ToggleRow(ctx, id, body.ApplicationID)
	})
}

// HandleSelectAll handles POST /views/{id}/select-all requests.
func (h *ViewsHandler) HandleSelectAll(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.deps.ToggleAll)
}

// HandleClearSelection handles DELETE /views/{id}/selection requests.
func (h *ViewsHandler) HandleClearSelection(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.deps.ClearSelection)
}

// HandleExport handles GET /views/{id}/export.csv requests.
func (h *ViewsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}

// HandleSchedule handles POST /views/{id}/schedule requests. Fields the
// body omits keep the form's defaults.
func (h *ViewsHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	req := schedule.DefaultRequest()
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.Schedule(r.Context(), r.PathValue("id"), req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		status, code := classify(err)
		if errors.Is(err, schedule.ErrScheduleFailed) {
			writeJSON(w, status, scheduleFailure{
				errorResponse: errorResponse{Code: code, Message: err.Error()},
				Scheduled:     res.Scheduled,
				FailedID:      res.FailedID,
			})
			return
		}
		writeError(w, status, code, err)
		return
	}
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

// respond runs op against the path's view id and writes the snapshot.
func (h *ViewsHandler) respond(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (Snapshot, error)) {
	snap, err := op(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
