package backend

import "errors"

// Sentinel kinds for backend errors.
var (
	ErrUnauthorized = errors.New("backend unauthorized")
	ErrUpstream     = errors.New("backend error")
	ErrTransport    = errors.New("backend unreachable")
	ErrJobNotFound  = errors.New("job not found")
)
