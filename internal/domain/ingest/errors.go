package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrMalformed = errors.New("malformed applicant payload")
)
