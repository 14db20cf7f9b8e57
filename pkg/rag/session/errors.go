package session

import (
	"errors"
)

// ErrNoActiveSession is returned by active-session accessors when the slot
// is empty.
var ErrNoActiveSession = errors.New("no active session started")

// ErrSessionMismatch is returned when an operation addresses a session that
// is not the current active one: either nothing is active or the id is
// stale from a superseded session. The caller should start a new session.
var ErrSessionMismatch = errors.New("session id does not match the active session")
