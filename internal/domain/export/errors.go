package export

import "errors"

// ErrWrite wraps I/O failures from the CSV writer.
var ErrWrite = errors.New("csv export write failed")
