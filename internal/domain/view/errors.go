package view

import "errors"

// Sentinel kinds for view-state errors.
var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrInvalidDirection = errors.New("invalid sort direction")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidPage      = errors.New("invalid page index")
	ErrRowNotVisible    = errors.New("row is not in the filtered set")
)
