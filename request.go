package sessio

// opKind identifies the kind of operation a pending request carries.
// Used for log fields; the request itself executes as a closure.
type opKind string

const (
	opRead     opKind = "read"
	opReadLine opKind = "readline"
	opWrite    opKind = "write"
	opFlush    opKind = "flush"
	opPassword opKind = "password"
	opOpen     opKind = "open"
)

// waiter is a suspended request in a session's admission queue.
//
// The broker resumes a waiter by sending on ready: nil grants the floor
// (the goroutine then performs its operation), ErrBrokenSession fails the
// request because its session was closed before servicing it. The channel
// is buffered so the broker never blocks on delivery.
type waiter struct {
	kind  opKind
	ready chan error
}

func newWaiter(kind opKind) *waiter {
	return &waiter{kind: kind, ready: make(chan error, 1)}
}
