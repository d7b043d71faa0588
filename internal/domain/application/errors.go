package application

import "errors"

// ErrInvalidForm wraps every application form or resume failure.
var ErrInvalidForm = errors.New("invalid application")
