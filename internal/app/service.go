// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/hireview/internal/adapters/repository"
	"github.com/okian/hireview/internal/domain/application"
	"github.com/okian/hireview/internal/domain/board"
	"github.com/okian/hireview/internal/domain/dedupe"
	"github.com/okian/hireview/internal/domain/export"
	"github.com/okian/hireview/internal/domain/ingest"
	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/posting"
	"github.com/okian/hireview/internal/domain/schedule"
	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/domain/types"
	"github.com/okian/hireview/internal/domain/view"
	"github.com/okian/hireview/pkg/logger"
	"github.com/okian/hireview/pkg/metrics"
)

// SessionName is the key the HR login is stored under.
const SessionName = "default"

// Backend is the REST collaborator the service reads from and writes to.
type Backend interface {
	Applicants(ctx context.Context) (ingest.Result, error)
	ScheduleInterview(ctx context.Context, in schedule.Interview) error
	PublicJobs(ctx context.Context) ([]types.Job, error)
	Interviews(ctx context.Context) ([]types.Interview, error)
	Login(ctx context.Context, email, password string) (session.Session, error)
	Job(ctx context.Context, id int64) (types.Job, error)
	CreateJob(ctx context.Context, d posting.Draft) (int64, error)
	SubmitApplication(ctx context.Context, f application.Form, r application.Resume) (int64, error)
}

// Snapshot is one derived page of one view session.
type Snapshot struct {
	ViewID string `json:"view_id"`
	view.Page
	// FetchError is set when the last fetch failed and the previous rows
	// are still shown.
	FetchError string `json:"fetch_error,omitempty"`
}

// ScheduleResult reports a bulk scheduling call.
type ScheduleResult struct {
	schedule.Outcome
	Replayed bool     `json:"replayed"`
	View     Snapshot `json:"view"`
}

// Export is a rendered CSV download.
type Export struct {
	Filename string
	Body     []byte
	Rows     int
}

// JobBoard is the filtered public job list and its facets.
type JobBoard struct {
	Jobs        []types.Job `json:"jobs"`
	Total       int         `json:"total"`
	Departments []string    `json:"departments"`
	Locations   []string    `json:"locations"`
}

// CreatedJob acknowledges a new posting.
type CreatedJob struct {
	JobID int64 `json:"job_id"`
}

// Submitted acknowledges a job application.
type Submitted struct {
	ApplicantID int64 `json:"applicant_id"`
	JobID       int64 `json:"job_id"`
}

// viewSession is one mounted table. mu serialises mutations; fetches run
// without it and commit under it.
type viewSession struct {
	mu        sync.Mutex
	id        string
	v         *view.View
	fetchErr  string
	createdAt time.Time
}

// Service implements the API dependencies for the applicant views.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend  Backend
	sessions session.Store
	views    *repository.MemoryViewStore[*viewSession]
	deduper  dedupe.Deduper

	// Configuration
	viewCfg       view.Config
	viewTTL       time.Duration
	sweepInterval time.Duration
	dedupeSize    int
	now           func() time.Time

	// State
	started bool
	current session.Session

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		viewCfg:       view.Config{PageSizes: view.DefaultPageSizes, DefaultPageSize: view.DefaultPageSizes[0]},
		viewTTL:       30 * time.Minute,
		sweepInterval: time.Minute,
		dedupeSize:    10000,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the view store and loads the persisted login session.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.backend == nil {
		return ErrNoBackend
	}

	s.logger.Info(ctx, "starting applicant view service...")

	s.views = repository.NewMemoryViewStore[*viewSession](ctx,
		repository.WithTTL(s.viewTTL),
		repository.WithSweepInterval(s.sweepInterval),
		repository.WithClock(s.now),
		repository.WithExpireHook(func(id string) {
			s.logger.Info(context.Background(), "view session expired", logger.String("view_id", id))
		}),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	if s.sessions != nil {
		sess, err := s.sessions.Load(ctx, SessionName)
		switch {
		case err == nil:
			s.current = sess
			s.logger.Info(ctx, "restored login session", logger.String("user", sess.User.Username))
		case errors.Is(err, session.ErrNoSession):
		default:
			s.logger.Warn(ctx, "failed to load login session", logger.Error(err))
		}
	}

	s.started = true
	s.logger.Info(ctx, "applicant view service started",
		logger.Any("pageSizes", s.viewCfg.PageSizes),
		logger.Duration("viewTTL", s.viewTTL),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping applicant view service...")
	if s.views != nil {
		_ = s.views.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "applicant view service stopped")
}

// authed attaches the current login session unless ctx already has one.
func (s *Service) authed(ctx context.Context) context.Context {
	if _, ok := session.FromContext(ctx); ok {
		return ctx
	}
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if !cur.Valid() {
		return ctx
	}
	return session.WithSession(ctx, cur)
}

func (s *Service) lookup(ctx context.Context, id string) (*viewSession, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	vs, err := s.views.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return vs, nil
}

// fetch loads records from the backend. Drops are logged and counted.
func (s *Service) fetch(ctx context.Context, viewID string) ([]model.ApplicantRecord, error) {
	res, err := s.backend.Applicants(s.authed(ctx))
	if err != nil {
		metrics.RecordFetch("failed")
		s.logger.Warn(ctx, "fetch applicants failed, keeping previous rows",
			logger.String("view_id", viewID), logger.Error(err))
		return nil, err
	}
	for _, d := range res.Dropped {
		metrics.RecordRecordDropped(d.Reason)
		s.logger.Warn(ctx, "dropped applicant row",
			logger.String("view_id", viewID),
			logger.Int("index", d.Index),
			logger.Int64("application_id", d.ApplicationID),
			logger.String("reason", d.Reason),
		)
	}
	metrics.RecordFetch("ok")
	metrics.RecordRecordsLoaded(len(res.Records))
	return res.Records, nil
}

// snapshot must be called with vs.mu held.
func (s *Service) snapshot(vs *viewSession, p view.Page) Snapshot {
	return Snapshot{ViewID: vs.id, Page: p, FetchError: vs.fetchErr}
}

// Open mounts a new view: empty state, then one fetch. A failed fetch
// still opens the view, with no rows and FetchError set.
func (s *Service) Open(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Snapshot{}, ErrNotStarted
	}

	vs := &viewSession{id: uuid.NewString(), v: view.New(s.viewCfg), createdAt: s.now()}
	s.views.Put(ctx, vs.id, vs)
	metrics.RecordViewOpened()
	s.logger.Info(ctx, "view session opened", logger.String("view_id", vs.id))

	return s.refresh(ctx, vs)
}

// Close unmounts a view and discards its state.
func (s *Service) Close(ctx context.Context, id string) error {
	if _, err := s.lookup(ctx, id); err != nil {
		return err
	}
	if err := s.views.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	s.logger.Info(ctx, "view session closed", logger.String("view_id", id))
	return nil
}

// Refresh refetches the records of a view. A failed fetch keeps the
// previous rows and is reported in FetchError, not as an error.
func (s *Service) Refresh(ctx context.Context, id string) (Snapshot, error) {
	vs, err := s.lookup(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.refresh(ctx, vs)
}

func (s *Service) refresh(ctx context.Context, vs *viewSession) (Snapshot, error) {
	records, err := s.fetch(ctx, vs.id)

	vs.mu.Lock()
	defer vs.mu.Unlock()
	start := time.Now()
	var p view.Page
	if err != nil {
		vs.fetchErr = err.Error()
		p = vs.v.Page()
	} else {
		vs.fetchErr = ""
		p = vs.v.Refresh(records)
	}
	metrics.RecordDeriveLatency(float64(time.Since(start).Microseconds()) / 1000)
	return s.snapshot(vs, p), nil
}

// mutate runs fn on the view under its lock and returns the derived page.
func (s *Service) mutate(ctx context.Context, id string, fn func(v *view.View) (view.Page, error)) (Snapshot, error) {
	vs, err := s.lookup(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	start := time.Now()
	p, err := fn(vs.v)
	metrics.RecordDeriveLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(vs, p), nil
}

func page(fn func(v *view.View) view.Page) func(v *view.View) (view.Page, error) {
	return func(v *view.View) (view.Page, error) { return fn(v), nil }
}

// Get derives the current page.
func (s *Service) Get(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, page((*view.View).Page))
}

// SetFilter replaces the filter text.
func (s *Service) SetFilter(ctx context.Context, id, text string) (Snapshot, error) {
	return s.mutate(ctx, id, page(func(v *view.View) view.Page { return v.SetFilter(text) }))
}

// ToggleSort flips or switches the sort column.
func (s *Service) ToggleSort(ctx context.Context, id string, key view.SortKey) (Snapshot, error) {
	return s.mutate(ctx, id, func(v *view.View) (view.Page, error) { return v.ToggleSort(key) })
}

// SetSort sets the sort column and direction.
func (s *Service) SetSort(ctx context.Context, id string, key view.SortKey, dir view.Direction) (Snapshot, error) {
	return s.mutate(ctx, id, func(v *view.View) (view.Page, error) { return v.SetSort(key, dir) })
}

// ClearSort removes sorting.
func (s *Service) ClearSort(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, page((*view.View).ClearSort))
}

// SetPageSize changes the page size.
func (s *Service) SetPageSize(ctx context.Context, id string, size int) (Snapshot, error) {
	return s.mutate(ctx, id, func(v *view.View) (view.Page, error) { return v.SetPageSize(size) })
}

// SetPage jumps to a page.
func (s *Service) SetPage(ctx context.Context, id string, index int) (Snapshot, error) {
	return s.mutate(ctx, id, func(v *view.View) (view.Page, error) { return v.SetPage(index) })
}

// NextPage advances one page if possible.
func (s *Service) NextPage(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, page(func(v *view.View) view.Page { p, _ := v.NextPage(); return p }))
}

// PrevPage goes back one page if possible.
func (s *Service) PrevPage(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, page(func(v *view.View) view.Page { p, _ := v.PrevPage(); return p }))
}

// ToggleRow flips selection of one visible row.
func (s *Service) ToggleRow(ctx context.Context, id string, applicationID int64) (Snapshot, error) {
	return s.mutate(ctx, id, func(v *view.View) (view.Page, error) { return v.ToggleRow(applicationID) })
}

// ToggleAll selects or deselects every filtered row.
func (s *Service) ToggleAll(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, page((*view.View).ToggleAll))
}

// ClearSelection deselects everything.
func (s *Service) ClearSelection(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, page((*view.View).ClearSelection))
}

// Export renders the filtered rows, in sort order, as CSV.
func (s *Service) Export(ctx context.Context, id string) (Export, error) {
	vs, err := s.lookup(ctx, id)
	if err != nil {
		return Export{}, err
	}
	vs.mu.Lock()
	rows := vs.v.Filtered()
	vs.mu.Unlock()

	body, err := export.Render(rows)
	if err != nil {
		return Export{}, err
	}
	metrics.RecordExport(len(rows))
	s.logger.Info(ctx, "exported applicants", logger.String("view_id", id), logger.Int("rows", len(rows)))
	return Export{Filename: export.Filename(s.now()), Body: body, Rows: len(rows)}, nil
}

// Schedule hands the view's filtered selection to the backend scheduler.
// On success the selection is cleared and the view refreshed; on failure
// the selection is kept. A non-empty key already seen for this view in the
// dedupe window is acknowledged without posting again.
func (s *Service) Schedule(ctx context.Context, id string, req schedule.Request, key string) (ScheduleResult, error) {
	vs, err := s.lookup(ctx, id)
	if err != nil {
		return ScheduleResult{}, err
	}

	// Keys are scoped to the view; the same key on another view is new.
	if key != "" {
		key = id + ":" + key
	}
	if key != "" && s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordScheduleReplay()
		s.logger.Info(ctx, "duplicate schedule request acknowledged",
			logger.String("view_id", id), logger.String("key", key))
		snap, err := s.Get(ctx, id)
		return ScheduleResult{Replayed: true, View: snap}, err
	}

	vs.mu.Lock()
	ids := vs.v.Selection()
	vs.mu.Unlock()

	out, err := schedule.Trigger(s.authed(ctx), s.backend, ids, req)
	if err != nil {
		if key != "" {
			s.deduper.Unrecord(ctx, key)
		}
		metrics.RecordSchedule("failed")
		s.logger.Warn(ctx, "schedule interviews failed",
			logger.String("view_id", id),
			logger.Int("selected", len(ids)),
			logger.Int("scheduled", len(out.Scheduled)),
			logger.Error(err),
		)
		snap, _ := s.Get(ctx, id)
		return ScheduleResult{Outcome: out, View: snap}, err
	}

	metrics.RecordSchedule("ok")
	s.logger.Info(ctx, "scheduled interviews",
		logger.String("view_id", id), logger.Int("count", len(out.Scheduled)))

	vs.mu.Lock()
	vs.v.ClearSelection()
	vs.mu.Unlock()

	snap, err := s.refresh(ctx, vs)
	return ScheduleResult{Outcome: out, View: snap}, err
}

// Jobs returns the public job board filtered by q.
func (s *Service) Jobs(ctx context.Context, q board.JobQuery) (JobBoard, error) {
	jobs, err := s.backend.PublicJobs(s.authed(ctx))
	if err != nil {
		s.logger.Warn(ctx, "fetch jobs failed", logger.Error(err))
		return JobBoard{}, err
	}
	return JobBoard{
		Jobs:        board.Jobs(jobs, q),
		Total:       len(jobs),
		Departments: board.Departments(jobs),
		Locations:   board.Locations(jobs),
	}, nil
}

// Interviews returns scheduled interviews filtered by q.
func (s *Service) Interviews(ctx context.Context, q board.InterviewQuery) ([]types.Interview, error) {
	list, err := s.backend.Interviews(s.authed(ctx))
	if err != nil {
		s.logger.Warn(ctx, "fetch interviews failed", logger.Error(err))
		return nil, err
	}
	return board.Interviews(list, q), nil
}

// Job returns one posting.
func (s *Service) Job(ctx context.Context, id int64) (types.Job, error) {
	job, err := s.backend.Job(s.authed(ctx), id)
	if err != nil {
		s.logger.Warn(ctx, "fetch job failed", logger.Int64("job_id", id), logger.Error(err))
		return types.Job{}, err
	}
	return job, nil
}

// CreateJob validates and posts a new job. Without an explicit author the
// logged-in user is recorded as created_by.
func (s *Service) CreateJob(ctx context.Context, d posting.Draft) (CreatedJob, error) {
	d = d.Normalize()
	if d.CreatedBy == 0 {
		if user, ok := s.CurrentUser(); ok {
			d.CreatedBy = user.EmpID
		}
	}
	if err := d.Validate(); err != nil {
		return CreatedJob{}, err
	}
	id, err := s.backend.CreateJob(s.authed(ctx), d)
	if err != nil {
		s.logger.Warn(ctx, "create job failed", logger.String("title", d.Title), logger.Error(err))
		return CreatedJob{}, err
	}
	metrics.RecordJobCreated()
	s.logger.Info(ctx, "job created", logger.Int64("job_id", id), logger.String("title", d.Title))
	return CreatedJob{JobID: id}, nil
}

// Apply validates and submits an application with its resume.
func (s *Service) Apply(ctx context.Context, f application.Form, r application.Resume) (Submitted, error) {
	f = f.Normalize()
	if err := application.Validate(f, r); err != nil {
		metrics.RecordApplication("invalid")
		return Submitted{}, err
	}
	id, err := s.backend.SubmitApplication(ctx, f, r)
	if err != nil {
		metrics.RecordApplication("failed")
		s.logger.Warn(ctx, "submit application failed", logger.Int64("job_id", f.JobID), logger.Error(err))
		return Submitted{}, err
	}
	metrics.RecordApplication("ok")
	s.logger.Info(ctx, "application submitted",
		logger.Int64("job_id", f.JobID), logger.Int64("applicant_id", id))
	return Submitted{ApplicantID: id, JobID: f.JobID}, nil
}

// Dashboard summarises the open postings and the applicant pool.
func (s *Service) Dashboard(ctx context.Context) (board.Summary, error) {
	ctx = s.authed(ctx)
	jobs, err := s.backend.PublicJobs(ctx)
	if err != nil {
		s.logger.Warn(ctx, "dashboard jobs failed", logger.Error(err))
		return board.Summary{}, err
	}
	res, err := s.backend.Applicants(ctx)
	if err != nil {
		s.logger.Warn(ctx, "dashboard applicants failed", logger.Error(err))
		return board.Summary{}, err
	}
	return board.Summarize(jobs, res.Records), nil
}

// Login authenticates against the backend and saves the session. This is
// the only place a session is created.
func (s *Service) Login(ctx context.Context, email, password string) (types.User, error) {
	sess, err := s.backend.Login(ctx, email, password)
	if err != nil {
		metrics.RecordSessionEvent("login_failed")
		return types.User{}, err
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, SessionName, sess); err != nil {
			return types.User{}, err
		}
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	metrics.RecordSessionEvent("login")
	s.logger.Info(ctx, "logged in", logger.String("user", sess.User.Username))
	return sess.User, nil
}

// Logout forgets the session in memory and in the store.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = session.Session{}
	s.mu.Unlock()
	metrics.RecordSessionEvent("logout")
	if s.sessions != nil {
		return s.sessions.Delete(ctx, SessionName)
	}
	return nil
}

// DropSession is the backend's 401 hook: the token is no longer good.
func (s *Service) DropSession(ctx context.Context) {
	if err := s.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "failed to drop rejected session", logger.Error(err))
	}
}

// CurrentUser returns the logged-in user, if any.
func (s *Service) CurrentUser() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User, s.current.Valid()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"pageSizes":  s.viewCfg.PageSizes,
		"viewTTL":    s.viewTTL.String(),
		"dedupeSize": s.dedupeSize,
		"loggedIn":   s.current.Valid(),
	}
	if s.started {
		open := s.views.Count(ctx)
		stats["openViews"] = open
		stats["dedupeKeys"] = s.deduper.Size()
		metrics.UpdateViewsOpen(open)
	}
	return stats
}
