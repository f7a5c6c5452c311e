package sessio

import "errors"

// Sentinel errors for broker protocol violations.
var (
	// ErrInvalidState indicates an operation on a session that is not the
	// legitimate active leaf when the protocol requires it to be: closing a
	// session twice, closing a session while one of its subsessions is still
	// open, closing the root session, or using a session after it was closed.
	// The call fails; the broker's session stack is left unchanged.
	ErrInvalidState = errors.New("sessio: invalid session state")

	// ErrBrokenSession is delivered to every request still queued against a
	// session at the moment that session is closed. A closed session never
	// becomes the active leaf again, so the queued requests could otherwise
	// never be serviced.
	ErrBrokenSession = errors.New("sessio: session closed with requests queued")
)

// I/O failures from the underlying streams are not part of this taxonomy.
// The broker propagates them unchanged, never retries, and leaves the
// session stack as it was: a failed write does not implicitly close the
// session.
