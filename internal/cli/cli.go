// Package cli renders the applicant table and job board in a terminal.
package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/okian/hireview/pkg/logger"
)

// SetupLogging sends log lines to stderr so stdout carries only the table.
func SetupLogging(verbose bool) error {
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		return err
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return logger.SetLevelString("warn")
}

// SetColor turns colored output on or off for every writer.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// ShowHelp prints usage information for the applicants tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Applicants
==========

Lists applicants from the hiring backend with the same filter, sort and
paging rules as the HR dashboard, and optionally exports them as CSV.

Usage:
  applicants [options]

Options:
  -url string        Base URL of the hiring backend (default "http://localhost:8000")
  -token string      Bearer token (or HIREVIEW_TOKEN)
  -email string      Log in with this HR email when no token is given
  -password string   Password for -email (or HIREVIEW_PASSWORD)
  -filter string     Match first name, last name or email (case-insensitive)
  -sort string       Sort column, e.g. resume_overall_score
  -dir string        asc or desc (default "asc")
  -page int          Zero-based page index (default 0)
  -size int          Page size: 10, 20 or 50 (default 10)
  -csv string        Also write every filtered row to this CSV file
  -jobs              Show the public job board instead of applicants
  -timeout duration  Backend request timeout (default 15s)
  -no-color          Disable colored output
  -verbose           Log requests to stderr
  -help              Show this help message

Examples:
  applicants -token $TOKEN -filter smith -sort resume_overall_score -dir desc
  applicants -email hr@corp.io -password secret -csv applicants.csv
  applicants -jobs
`)
}
