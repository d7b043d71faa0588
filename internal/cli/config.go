package cli

import (
	"fmt"
	"time"

	"github.com/okian/hireview/internal/domain/view"
)

// Config holds one invocation of the applicants tool.
type Config struct {
	BaseURL   string        // Base URL of the hiring backend
	Token     string        // Bearer token; empty means log in with Email/Password
	Email     string        // HR login email
	Password  string        // HR login password
	Filter    string        // Name/email filter text
	SortKey   string        // Sort column; empty keeps load order
	Direction string        // asc or desc
	Page      int           // Zero-based page index
	PageSize  int           // One of the offered page sizes
	CSVPath   string        // Write the filtered rows here as CSV
	Jobs      bool          // Show the public job board instead
	Timeout   time.Duration // Per-request backend timeout
	NoColor   bool          // Disable colored output
}

// Validate rejects flag combinations the view would refuse anyway, before
// any request is made.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: -url must not be empty", ErrUsage)
	}
	if c.SortKey != "" && !view.SortKey(c.SortKey).Valid() {
		return fmt.Errorf("%w: -sort %q; one of %v", ErrUsage, c.SortKey, view.SortKeys())
	}
	if _, err := view.ParseDirection(c.Direction); err != nil {
		return fmt.Errorf("%w: -dir: %w", ErrUsage, err)
	}
	if c.Page < 0 {
		return fmt.Errorf("%w: -page must not be negative", ErrUsage)
	}
	return nil
}
