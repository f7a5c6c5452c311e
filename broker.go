package sessio

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broker serializes stream access across goroutines.
//
// A Broker owns three stream handles (stdout, stderr, stdin) plus the
// primordial console, and maintains the stack of open sessions. Only the
// top of the stack, the active leaf, may perform I/O; requests against any
// other open session suspend in that session's FIFO admission queue.
//
// A process normally constructs one Broker at startup and passes it by
// reference to everything that needs the shared streams. Nothing enforces
// a single instance; two brokers over the same streams simply serialize
// independently, which defeats the point.
//
// All methods are safe for concurrent use.
type Broker struct {
	root    *Session
	console Console
	log     *zap.Logger

	mu      sync.Mutex
	stack   []*Session // open sessions, root first, active leaf last
	running bool       // an admitted operation currently holds the floor
}

// New creates a Broker with its root session. The root session is always
// autoflush=true and can never be closed. By default the broker binds the
// process streams; tests and embedders rebind via options.
func New(opts ...Option) *Broker {
	cfg := resolveOptions(opts...)
	if cfg.stdout == nil {
		cfg.stdout = os.Stdout
	}
	if cfg.stderr == nil {
		cfg.stderr = os.Stderr
	}
	if cfg.stdin == nil {
		cfg.stdin = os.Stdin
	}
	if cfg.console == nil {
		cfg.console = NewConsole(os.Stdin, os.Stdout)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}

	b := &Broker{
		console: cfg.console,
		log:     cfg.log,
	}
	b.root = &Session{
		b:         b,
		id:        uuid.New().String(),
		autoflush: true,
		stdout:    NewOutput(cfg.stdout),
		stderr:    NewOutput(cfg.stderr),
		stdin:     NewInput(cfg.stdin),
		open:      true,
	}
	b.stack = []*Session{b.root}
	b.log.Debug("broker ready", zap.String("root", b.root.id))
	return b
}

// Root returns the root session. It exists before any Open call and
// outlives every subsession.
func (b *Broker) Root() *Session { return b.root }

// Open creates a subsession of the root session. See [Session.Open].
func (b *Broker) Open(opts ...SessionOption) (*Session, error) {
	return b.root.Open(opts...)
}

// Read reads exactly n bytes via the root session. See [Session.Read].
func (b *Broker) Read(n int) (string, error) { return b.root.Read(n) }

// ReadLine reads one line via the root session. See [Session.ReadLine].
func (b *Broker) ReadLine() (string, error) { return b.root.ReadLine() }

// Password prompts for a secret via the root session. See [Session.Password].
func (b *Broker) Password(prompt string) (string, error) {
	return b.root.Password(prompt)
}

// Write writes via the root session. See [Session.Write].
//
// There is deliberately no Broker.Flush: the root session's autoflush is
// fixed true, so a manual flush at this level would always be a no-op.
func (b *Broker) Write(values ...any) error { return b.root.Write(values...) }

// WriteLine writes a line via the root session. See [Session.WriteLine].
func (b *Broker) WriteLine(values ...any) error {
	return b.root.WriteLine(values...)
}

// execute runs op with exclusive stream access on behalf of s.
//
// If s is the active leaf, its queue is empty, and no operation holds the
// floor, op runs synchronously. Otherwise the request enqueues on s and the
// goroutine blocks until the broker admits it (runs op then) or fails it
// with ErrBrokenSession because s was closed first. The enqueue-even-when-
// leaf rule keeps admission strictly FIFO while a queue is draining.
//
// op runs outside the broker lock so that a blocking read never prevents
// other goroutines from enqueueing.
func (b *Broker) execute(s *Session, kind opKind, op func() error) error {
	b.mu.Lock()
	if !s.open {
		b.mu.Unlock()
		return fmt.Errorf("%w: session %s is closed", ErrInvalidState, s.id)
	}
	if b.leafLocked() == s && !b.running && len(s.waiters) == 0 {
		b.running = true
		b.mu.Unlock()
		return b.finish(op())
	}

	w := newWaiter(kind)
	s.waiters = append(s.waiters, w)
	b.log.Debug("request queued",
		zap.String("session", s.id),
		zap.String("op", string(kind)),
		zap.Int("queued", len(s.waiters)))
	b.mu.Unlock()

	if err := <-w.ready; err != nil {
		return err
	}
	return b.finish(op())
}

// finish releases the floor. If a Close is waiting for this operation to
// drain, finish completes the close; otherwise it admits the active leaf's
// next waiter.
func (b *Broker) finish(err error) error {
	b.mu.Lock()
	leaf := b.leafLocked()
	b.running = false
	if leaf.closeDone != nil {
		done := leaf.closeDone
		leaf.closeDone = nil
		b.popLocked(leaf)
		b.mu.Unlock()
		close(done)
		return err
	}
	b.admitLocked()
	b.mu.Unlock()
	return err
}

// open implements Session.Open. The creator already holds exclusivity when
// parent is the idle active leaf, so the child is pushed with no queueing
// delay; otherwise the open request itself waits in parent's queue.
func (b *Broker) open(parent *Session, opts ...SessionOption) (*Session, error) {
	cfg := resolveSessionOptions(opts...)

	b.mu.Lock()
	if !parent.open {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: session %s is closed", ErrInvalidState, parent.id)
	}
	if b.leafLocked() == parent && !b.running && len(parent.waiters) == 0 {
		child := b.pushLocked(parent, cfg)
		b.mu.Unlock()
		return child, nil
	}

	w := newWaiter(opOpen)
	parent.waiters = append(parent.waiters, w)
	b.log.Debug("request queued",
		zap.String("session", parent.id),
		zap.String("op", string(opOpen)),
		zap.Int("queued", len(parent.waiters)))
	b.mu.Unlock()

	if err := <-w.ready; err != nil {
		return nil, err
	}

	b.mu.Lock()
	if !parent.open {
		// Parent was closed in the window between admission and here.
		// The request never executed, so it fails like a queued one.
		b.mu.Unlock()
		return nil, b.finish(ErrBrokenSession)
	}
	// An admitted open holds the floor only long enough to push the child.
	// The child starts with an empty queue, so no further admission runs
	// until work arrives on it or it closes.
	b.running = false
	child := b.pushLocked(parent, cfg)
	b.mu.Unlock()
	return child, nil
}

// close implements Session.Close.
func (b *Broker) close(s *Session) error {
	b.mu.Lock()

	if !s.open {
		b.mu.Unlock()
		return fmt.Errorf("%w: session %s already closed", ErrInvalidState, s.id)
	}
	if s.parent == nil {
		b.mu.Unlock()
		return fmt.Errorf("%w: root session cannot be closed", ErrInvalidState)
	}
	if b.leafLocked() != s {
		b.mu.Unlock()
		return fmt.Errorf("%w: session %s is not the active leaf", ErrInvalidState, s.id)
	}

	// Fail every request still queued against s before releasing the
	// parent. s never becomes the active leaf again, so they could never
	// be serviced. Marking the session closed first makes new requests
	// fail fast with ErrInvalidState instead of queueing.
	s.open = false
	broken := s.waiters
	s.waiters = nil
	for _, w := range broken {
		w.ready <- ErrBrokenSession
	}
	if len(broken) > 0 {
		b.log.Warn("session closed with requests queued",
			zap.String("session", s.id),
			zap.Int("failed", len(broken)))
	}

	if b.running {
		// An already-admitted request still holds the floor. It completed
		// admission before the close, so it runs to completion; finish
		// pops the stack and releases the parent on its way out.
		done := make(chan struct{})
		s.closeDone = done
		b.mu.Unlock()
		<-done
		return nil
	}

	b.popLocked(s)
	b.mu.Unlock()
	return nil
}

// popLocked removes the active leaf from the stack and admits the new
// leaf's longest waiter, if any.
func (b *Broker) popLocked(s *Session) {
	b.stack = b.stack[:len(b.stack)-1]
	b.log.Debug("session closed",
		zap.String("session", s.id),
		zap.String("parent", s.parent.id),
		zap.Int("depth", s.depth))
	b.admitLocked()
}

// leafLocked returns the active leaf. The stack is never empty.
func (b *Broker) leafLocked() *Session {
	return b.stack[len(b.stack)-1]
}

// admitLocked grants the floor to the active leaf's longest-waiting
// request, if the floor is free and the leaf has one.
func (b *Broker) admitLocked() {
	if b.running {
		return
	}
	leaf := b.leafLocked()
	if len(leaf.waiters) == 0 {
		return
	}
	w := leaf.waiters[0]
	leaf.waiters = leaf.waiters[1:]
	b.running = true
	b.log.Debug("request admitted",
		zap.String("session", leaf.id),
		zap.String("op", string(w.kind)),
		zap.Int("queued", len(leaf.waiters)))
	w.ready <- nil
}

// pushLocked creates a subsession and makes it the new active leaf.
// Autoflush and stream bindings resolve to explicit options, else inherit
// from the parent.
func (b *Broker) pushLocked(parent *Session, cfg sessionConfig) *Session {
	autoflush := parent.autoflush
	if cfg.autoflush != nil {
		autoflush = *cfg.autoflush
	}
	child := &Session{
		b:         b,
		id:        uuid.New().String(),
		parent:    parent,
		autoflush: autoflush,
		depth:     parent.depth + 1,
		stdout:    parent.stdout,
		stderr:    parent.stderr,
		stdin:     parent.stdin,
		open:      true,
	}
	if cfg.stdout != nil {
		child.stdout = cfg.stdout
	}
	if cfg.stderr != nil {
		child.stderr = cfg.stderr
	}
	if cfg.stdin != nil {
		child.stdin = cfg.stdin
	}
	b.stack = append(b.stack, child)
	b.log.Debug("session opened",
		zap.String("session", child.id),
		zap.String("parent", parent.id),
		zap.Bool("autoflush", autoflush),
		zap.Int("depth", child.depth))
	return child
}
