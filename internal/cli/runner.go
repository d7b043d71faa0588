package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/hireview/internal/adapters/backend"
	"github.com/okian/hireview/internal/domain/board"
	"github.com/okian/hireview/internal/domain/export"
	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/domain/view"
	"github.com/okian/hireview/pkg/logger"
)

// Run fetches from the backend once and prints the requested page or the
// job board to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.Named("cli")
	log.Debug(ctx, "starting applicants tool",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("filter", cfg.Filter),
		logger.String("sort", cfg.SortKey),
		logger.Int("page", cfg.Page),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := backend.New(cfg.BaseURL,
		backend.WithTimeout(cfg.Timeout),
		backend.WithLogger(log.Named("backend")),
	)

	if cfg.Jobs {
		jobs, err := client.PublicJobs(ctx)
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}
		renderJobs(out, board.Jobs(jobs, board.JobQuery{Department: board.All, Location: board.All, SortBy: board.SortRecent}))
		return nil
	}

	ctx, err := authenticate(ctx, client, cfg)
	if err != nil {
		return err
	}
	res, err := client.Applicants(ctx)
	if err != nil {
		return fmt.Errorf("fetch applicants: %w", err)
	}
	for _, d := range res.Dropped {
		log.Warn(ctx, "dropped applicant row",
			logger.Int("index", d.Index),
			logger.Int64("application_id", d.ApplicationID),
			logger.String("reason", d.Reason),
		)
	}

	v, page, err := buildView(cfg, res.Records)
	if err != nil {
		return err
	}
	renderApplicants(out, page)

	if cfg.CSVPath != "" {
		n, err := writeCSV(cfg.CSVPath, v.Filtered())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, success(fmt.Sprintf("wrote %d rows to %s", n, cfg.CSVPath)))
	}
	return nil
}

// authenticate attaches a session from the token flag or a fresh login.
// Without either the request goes out anonymous and the backend decides.
func authenticate(ctx context.Context, client *backend.Client, cfg *Config) (context.Context, error) {
	switch {
	case cfg.Token != "":
		return session.WithSession(ctx, session.Session{Token: cfg.Token}), nil
	case cfg.Email != "":
		s, err := client.Login(ctx, cfg.Email, cfg.Password)
		if err != nil {
			return ctx, fmt.Errorf("%w: %w", ErrLogin, err)
		}
		return session.WithSession(ctx, s), nil
	default:
		return ctx, nil
	}
}

// buildView applies the flags to a fresh view in the order the dashboard
// would: filter, sort, page size, then page.
func buildView(cfg *Config, records []model.ApplicantRecord) (*view.View, view.Page, error) {
	v := view.New(view.Config{PageSizes: view.DefaultPageSizes, DefaultPageSize: view.DefaultPageSizes[0]})
	v.Refresh(records)
	v.SetFilter(cfg.Filter)
	if cfg.SortKey != "" {
		dir, _ := view.ParseDirection(cfg.Direction)
		if _, err := v.SetSort(view.SortKey(cfg.SortKey), dir); err != nil {
			return nil, view.Page{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
	}
	if cfg.PageSize != 0 {
		if _, err := v.SetPageSize(cfg.PageSize); err != nil {
			return nil, view.Page{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
	}
	page, err := v.SetPage(cfg.Page)
	if err != nil {
		return nil, view.Page{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return v, page, nil
}

func writeCSV(path string, rows []model.ApplicantRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	n, err := export.Write(f, rows)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", path, cerr)
	}
	return n, err
}
