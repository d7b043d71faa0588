package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrViewNotFound = errors.New("view not found")
	ErrNotStarted   = errors.New("service not started")
	ErrNoBackend    = errors.New("no backend configured")
)
