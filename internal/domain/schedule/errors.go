package schedule

import "errors"

// Sentinel kinds for scheduling errors.
var (
	ErrInvalidRequest = errors.New("invalid schedule request")
	ErrNoSelection    = errors.New("no applications selected")
	ErrScheduleFailed = errors.New("schedule interview failed")
)
