package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/hireview/internal/cli"
)

// Default configuration constants.
const (
	defaultBaseURL  = "http://localhost:8000"
	defaultPageSize = 10
	defaultTimeout  = 15 * time.Second
)

func main() {
	var (
		baseURL  = flag.String("url", defaultBaseURL, "Base URL of the hiring backend")
		token    = flag.String("token", os.Getenv("HIREVIEW_TOKEN"), "Bearer token")
		email    = flag.String("email", "", "Log in with this HR email when no token is given")
		password = flag.String("password", os.Getenv("HIREVIEW_PASSWORD"), "Password for -email")
		filter   = flag.String("filter", "", "Match first name, last name or email")
		sortKey  = flag.String("sort", "", "Sort column")
		dir      = flag.String("dir", "asc", "Sort direction: asc or desc")
		page     = flag.Int("page", 0, "Zero-based page index")
		size     = flag.Int("size", defaultPageSize, "Page size: 10, 20 or 50")
		csvPath  = flag.String("csv", "", "Also write every filtered row to this CSV file")
		jobs     = flag.Bool("jobs", false, "Show the public job board instead of applicants")
		timeout  = flag.Duration("timeout", defaultTimeout, "Backend request timeout")
		noColor  = flag.Bool("no-color", false, "Disable colored output")
		verbose  = flag.Bool("verbose", false, "Log requests to stderr")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *noColor {
		cli.SetColor(false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &cli.Config{
		BaseURL:   *baseURL,
		Token:     *token,
		Email:     *email,
		Password:  *password,
		Filter:    *filter,
		SortKey:   *sortKey,
		Direction: *dir,
		Page:      *page,
		PageSize:  *size,
		CSVPath:   *csvPath,
		Jobs:      *jobs,
		Timeout:   *timeout,
		NoColor:   *noColor,
	}

	if err := cli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("applicants: " + err.Error() + "\n")
		os.Exit(1)
	}
}
