package cli

import "errors"

// Sentinel kinds for tool errors.
var (
	ErrUsage = errors.New("usage")
	ErrLogin = errors.New("login failed")
)
