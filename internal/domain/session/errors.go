package session

import "errors"

// ErrNoSession is returned when no session is stored or attached.
var ErrNoSession = errors.New("no session")
