package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownDriver = errors.New("unknown session driver")
	ErrStore         = errors.New("session store failure")
)
