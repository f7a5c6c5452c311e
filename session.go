package sessio

import (
	"fmt"
	"strings"
)

// Session is a scoped claim of exclusive stream access.
//
// Only the broker's current active leaf session may perform I/O. Calls on
// any other open session suspend the calling goroutine in that session's
// FIFO admission queue until the session becomes the leaf again. Calls on a
// closed session fail with [ErrInvalidState].
//
// A Session is created by [Broker.Open] or [Session.Open] and is intended
// to be closed by the goroutine that opened it. Its autoflush mode and
// stream bindings are fixed at creation.
type Session struct {
	b *Broker

	id        string
	parent    *Session
	autoflush bool
	depth     int

	stdout Output
	stderr Output
	stdin  Input

	// Guarded by b.mu.
	open      bool
	waiters   []*waiter
	closeDone chan struct{} // non-nil while Close waits out an in-flight op
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Parent returns the session this one was opened from, or nil for the root.
func (s *Session) Parent() *Session { return s.parent }

// Autoflush reports whether writes on this session flush immediately by
// default. Fixed at creation: explicit [WithAutoflush], else inherited.
func (s *Session) Autoflush() bool { return s.autoflush }

// Open creates a subsession of s. If s is not the current active leaf, the
// call suspends until it becomes so; the subsession then becomes the new
// active leaf immediately, with no queueing delay for its creator. No other
// session may perform I/O until the subsession is closed.
func (s *Session) Open(opts ...SessionOption) (*Session, error) {
	return s.b.open(s, opts...)
}

// Close ends the session and returns exclusivity to its parent, admitting
// the parent's longest-waiting queued request if there is one.
//
// s must be the current active leaf: closing twice, closing while a
// subsession is still open, or closing the root fails with
// [ErrInvalidState] and leaves the session stack unchanged. Requests still
// queued against s each fail with [ErrBrokenSession] before the parent is
// released.
func (s *Session) Close() error {
	return s.b.close(s)
}

// Read reads exactly n bytes from the session's input stream. It returns
// fewer than n bytes only at end of stream.
func (s *Session) Read(n int) (string, error) {
	var out []byte
	err := s.b.execute(s, opRead, func() error {
		var err error
		out, err = s.stdin.ReadExact(n)
		return err
	})
	return string(out), err
}

// ReadLine reads one line from the session's input stream, including the
// trailing newline. At end of stream it returns the final partial line
// without one.
func (s *Session) ReadLine() (string, error) {
	var out []byte
	err := s.b.execute(s, opReadLine, func() error {
		var err error
		out, err = s.stdin.ReadLine()
		return err
	})
	return string(out), err
}

// Password writes prompt and reads one line without echoing it.
//
// Password always targets the broker's primordial console, regardless of
// any stream rebinding configured on s. This is the one exception to the
// session's stream routing.
func (s *Session) Password(prompt string) (string, error) {
	var out string
	err := s.b.execute(s, opPassword, func() error {
		var err error
		out, err = s.b.console.ReadLineNoEcho(prompt)
		return err
	})
	return out, err
}

// Write stringifies each value, joins them with a single space, and writes
// the result to the session's stdout, flushing per the session's autoflush
// mode. Use [Session.WriteWith] for a different separator, the stderr
// stream, or a per-call flush override.
func (s *Session) Write(values ...any) error {
	return s.write(WriteOptions{}, values, false)
}

// WriteLine is Write with a trailing newline.
func (s *Session) WriteLine(values ...any) error {
	return s.write(WriteOptions{}, values, true)
}

// WriteWith is Write with per-call overrides.
func (s *Session) WriteWith(opts WriteOptions, values ...any) error {
	return s.write(opts, values, false)
}

// WriteLineWith is WriteLine with per-call overrides.
func (s *Session) WriteLineWith(opts WriteOptions, values ...any) error {
	return s.write(opts, values, true)
}

// Flush forces buffered output on both of the session's output streams.
// Only useful on sessions with autoflush disabled.
func (s *Session) Flush() error {
	return s.b.execute(s, opFlush, func() error {
		if err := s.stdout.Flush(); err != nil {
			return err
		}
		return s.stderr.Flush()
	})
}

// write formats the payload before enqueueing, so formatting happens at the
// call site rather than at an arbitrary later resumption point.
func (s *Session) write(opts WriteOptions, values []any, newline bool) error {
	sep := opts.Sep
	if sep == "" {
		sep = " "
	}
	payload := formatValues(values, sep)
	if newline {
		payload += "\n"
	}

	out := s.stdout
	if opts.Stderr {
		out = s.stderr
	}

	flush := s.autoflush
	switch opts.Flush {
	case FlushAlways:
		flush = true
	case FlushNever:
		flush = false
	}

	return s.b.execute(s, opWrite, func() error {
		if err := out.Write([]byte(payload)); err != nil {
			return err
		}
		if flush {
			return out.Flush()
		}
		return nil
	})
}

// formatValues stringifies each value and joins them with sep.
func formatValues(values []any, sep string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return fmt.Sprint(values[0])
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}
