package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/hireview/internal/domain/application"
)

// ResumeField is the multipart file field carrying the resume.
const ResumeField = "resume"

// multipartOverhead is the room left for form fields beside the resume.
const multipartOverhead = 1 << 20

// ApplicationsHandler handles candidate job applications.
type ApplicationsHandler struct {
	deps Dependencies
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(deps Dependencies) *ApplicationsHandler {
	return &ApplicationsHandler{deps: deps}
}

// HandleApply handles multipart POST /applications requests.
func (h *ApplicationsHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, application.MaxResumeBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
			return
		}
		writeFailure(w, fmt.Errorf("%w: invalid multipart form: %w", ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form, err := applicationForm(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	resume, err := readResume(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	sub, err := h.deps.Apply(r.Context(), form, resume)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func applicationForm(r *http.Request) (application.Form, error) {
	v := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }
	f := application.Form{
		Source:            v("source"),
		ApplicationStatus: v("application_status"),
		FirstName:         v("first_name"),
		LastName:          v("last_name"),
		Email:             v("email"),
		Phone:             v("phone"),
		LinkedInURL:       v("linkedin_url"),
		Education:         v("education"),
		CurrentCompany:    v("current_company"),
		CurrentRole:       v("current_role"),
		Skills:            v("skills"),
		Location:          v("location"),
	}
	var err error
	if raw := v("job_id"); raw != "" {
		if f.JobID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return f, fmt.Errorf("%w: job_id must be an integer", ErrBadRequest)
		}
	}
	if f.ExperienceYears, err = optional(v("experience_years"), parseFloat); err != nil {
		return f, fmt.Errorf("%w: experience_years must be a number", ErrBadRequest)
	}
	if f.ExpectedCTC, err = optional(v("expected_ctc"), parseFloat); err != nil {
		return f, fmt.Errorf("%w: expected_ctc must be a number", ErrBadRequest)
	}
	if f.NoticePeriodDays, err = optional(v("notice_period_days"), strconv.Atoi); err != nil {
		return f, fmt.Errorf("%w: notice_period_days must be an integer", ErrBadRequest)
	}
	return f, nil
}

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// optional parses raw, or returns nil when it is empty.
func optional[T any](raw string, parse func(string) (T, error)) (*T, error) {
	if raw == "" {
		return nil, nil
	}
	x, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

// readResume returns an empty Resume when no file was sent; validation
// reports it.
func readResume(r *http.Request) (application.Resume, error) {
	file, hdr, err := r.FormFile(ResumeField)
	if errors.Is(err, http.ErrMissingFile) {
		return application.Resume{}, nil
	}
	if err != nil {
		return application.Resume{}, fmt.Errorf("%w: resume: %w", ErrBadRequest, err)
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, application.MaxResumeBytes+1))
	if err != nil {
		return application.Resume{}, fmt.Errorf("%w: resume: %w", ErrBadRequest, err)
	}
	return application.Resume{Filename: hdr.Filename, Content: content}, nil
}
