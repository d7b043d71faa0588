package main

import (
	"context"
	"errors"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/okian/hireview/internal/adapters/backend"
	"github.com/okian/hireview/internal/adapters/repository"
	app "github.com/okian/hireview/internal/app"
	"github.com/okian/hireview/internal/config"
	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/mcptools"
	"github.com/okian/hireview/pkg/logger"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// stdout carries the protocol.
	if err := logger.Init(logger.WithOutput(os.Stderr), logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Named("mcp")

	sess := loadSession(ctx, cfg, log)
	client := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout()),
		backend.WithLogger(log.Named("backend")),
	)

	s := mcptools.NewServer("hireview-applicants", version, mcptools.New(client, sess))
	if err := server.ServeStdio(s); err != nil {
		log.Error(ctx, "server error", logger.Error(err))
		os.Exit(1)
	}
}

// loadSession prefers HIREVIEW_TOKEN and otherwise reuses the login the
// HTTP service saved.
func loadSession(ctx context.Context, cfg *config.Config, log logger.Logger) session.Session {
	if tok := os.Getenv(config.EnvPrefix + "TOKEN"); tok != "" {
		return session.Session{Token: tok}
	}
	if cfg.SessionDSN == "" {
		return session.Session{}
	}
	store, err := repository.OpenSessionStore(ctx, cfg.SessionDriver, cfg.SessionDSN)
	if err != nil {
		log.Warn(ctx, "session store unavailable", logger.Error(err))
		return session.Session{}
	}
	defer func() { _ = store.Close() }()

	sess, err := store.Load(ctx, app.SessionName)
	switch {
	case err == nil:
		log.Info(ctx, "using saved login", logger.String("user", sess.User.Username))
	case !errors.Is(err, session.ErrNoSession):
		log.Warn(ctx, "failed to load saved login", logger.Error(err))
	}
	return sess
}
