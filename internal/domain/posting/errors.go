package posting

import "errors"

// ErrInvalidDraft wraps every job form validation failure.
var ErrInvalidDraft = errors.New("invalid job posting")
