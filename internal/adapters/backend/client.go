// Package backend is the HTTP client for the hiring REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/hireview/internal/domain/application"
	"github.com/okian/hireview/internal/domain/ingest"
	"github.com/okian/hireview/internal/domain/posting"
	"github.com/okian/hireview/internal/domain/schedule"
	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/domain/types"
	"github.com/okian/hireview/pkg/logger"
	"github.com/okian/hireview/pkg/metrics"
)

// Backend endpoints.
const (
	PathLogin      = "/api/v1/auth/login"
	PathJobs       = "/api/v1/hr/jobs"
	PathApplicants = "/api/v1/applicants/applicants"
	PathSchedule   = "/api/v1/interviews/schedule"
	PathSchedules  = "/api/v1/interviews/schedules"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// Client talks to the backend. The bearer token comes from the session in
// each request's context.
type Client struct {
	baseURL        string
	http           *http.Client
	log            logger.Logger
	onUnauthorized func(ctx context.Context)
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("backend")
	}
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Applicants fetches and decodes the applicant list.
func (c *Client) Applicants(ctx context.Context) (ingest.Result, error) {
	body, err := c.do(ctx, "applicants", http.MethodGet, PathApplicants, nil)
	if err != nil {
		return ingest.Result{}, err
	}
	res, err := ingest.Decode(body)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return res, nil
}

// ScheduleInterview posts one interview. It satisfies schedule.Scheduler.
func (c *Client) ScheduleInterview(ctx context.Context, in schedule.Interview) error {
	_, err := c.do(ctx, "schedule", http.MethodPost, PathSchedule, in)
	return err
}

// PublicJobs lists the active jobs.
func (c *Client) PublicJobs(ctx context.Context) ([]types.Job, error) {
	body, err := c.do(ctx, "jobs", http.MethodGet, PathJobs, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		ActiveJobs []types.Job `json:"active_jobs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode jobs: %w", ErrUpstream, err)
	}
	return payload.ActiveJobs, nil
}

// Job fetches one posting. A 404 is ErrJobNotFound.
func (c *Client) Job(ctx context.Context, id int64) (types.Job, error) {
	body, err := c.do(ctx, "job", http.MethodGet, PathJobs+"/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		if StatusOf(err) == http.StatusNotFound {
			return types.Job{}, fmt.Errorf("%w: %d: %w", ErrJobNotFound, id, err)
		}
		return types.Job{}, err
	}
	var job types.Job
	if err := json.Unmarshal(body, &job); err != nil {
		return types.Job{}, fmt.Errorf("%w: decode job: %w", ErrUpstream, err)
	}
	return job, nil
}

// CreateJob posts a new job and returns its id.
func (c *Client) CreateJob(ctx context.Context, d posting.Draft) (int64, error) {
	body, err := c.do(ctx, "create_job", http.MethodPost, PathJobs, d)
	if err != nil {
		return 0, err
	}
	var payload struct {
		JobID int64 `json:"job_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: decode created job: %w", ErrUpstream, err)
	}
	return payload.JobID, nil
}

// SubmitApplication posts the form and resume as multipart/form-data and
// returns the new applicant id.
func (c *Client) SubmitApplication(ctx context.Context, f application.Form, r application.Resume) (int64, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, fl := range f.Fields() {
		if err := mw.WriteField(fl.Name, fl.Value); err != nil {
			return 0, fmt.Errorf("failed to write form field %s: %w", fl.Name, err)
		}
	}
	part, err := mw.CreateFormFile("resume", filepath.Base(r.Filename))
	if err != nil {
		return 0, fmt.Errorf("failed to add resume: %w", err)
	}
	if _, err := part.Write(r.Content); err != nil {
		return 0, fmt.Errorf("failed to add resume: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("failed to close form: %w", err)
	}

	body, err := c.send(ctx, "apply", http.MethodPost, PathApplicants, &buf, mw.FormDataContentType())
	if err != nil {
		return 0, err
	}
	var payload struct {
		ApplicantID int64 `json:"applicant_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: decode application: %w", ErrUpstream, err)
	}
	return payload.ApplicantID, nil
}

// Interviews lists scheduled interviews. A non-array payload is empty.
func (c *Client) Interviews(ctx context.Context) ([]types.Interview, error) {
	body, err := c.do(ctx, "interviews", http.MethodGet, PathSchedules, nil)
	if err != nil {
		return nil, err
	}
	var list []types.Interview
	if err := json.Unmarshal(body, &list); err != nil {
		var shape any
		if json.Unmarshal(body, &shape) == nil {
			if _, isArray := shape.([]any); !isArray {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("%w: decode interviews: %w", ErrUpstream, err)
	}
	return list, nil
}

// Login exchanges credentials for a session. The returned session is not
// stored anywhere; that is the caller's boundary.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	body, err := c.do(ctx, "login", http.MethodPost, PathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return session.Session{}, err
	}
	var payload struct {
		Token string     `json:"token"`
		User  types.User `json:"user"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return session.Session{}, fmt.Errorf("%w: decode login: %w", ErrUpstream, err)
	}
	if payload.Token == "" {
		return session.Session{}, fmt.Errorf("%w: login returned no token", ErrUpstream)
	}
	return session.Session{Token: payload.Token, User: payload.User, CreatedAt: time.Now()}, nil
}

// do sends in as JSON, or no body when in is nil.
func (c *Client) do(ctx context.Context, op, method, path string, in any) ([]byte, error) {
	if in == nil {
		return c.send(ctx, op, method, path, nil, "")
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.send(ctx, op, method, path, bytes.NewReader(b), "application/json")
}

func (c *Client) send(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordBackendRequest(op, status, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	s, authed := session.FromContext(ctx)
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.log.Warn(ctx, "backend rejected credentials",
			logger.String("path", path), logger.Bool("token", authed))
		// Only a rejected token invalidates the session; a failed login
		// never carried one.
		if authed && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, &Error{Status: resp.StatusCode, Message: message(out), kind: ErrUnauthorized}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Status: resp.StatusCode, Message: message(out), kind: ErrUpstream}
	}
	return out, nil
}

// message pulls a human message out of an error body.
func message(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  any    `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.kind, e.Status)
	}
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.Status, e.Message)
}

// Unwrap exposes ErrUnauthorized or ErrUpstream.
func (e *Error) Unwrap() error { return e.kind }

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
