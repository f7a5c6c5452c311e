// Package sessio serializes concurrent terminal I/O across goroutines.
//
// sessio arbitrates access to a process's stdin/stdout/stderr among many
// independently-scheduled goroutines. A goroutine claims temporary exclusive
// ownership of the streams by opening a [Session]; while the session is open,
// reads and writes from other goroutines queue instead of interleaving.
//
// # Core Types
//
//   - [Broker] — the process-wide serializing scheduler
//   - [Session] — a scoped claim of exclusive stream access; root or nested
//   - [Output] / [Input] — stream capabilities consumed by the broker
//   - [Console] — the primordial terminal pair, used for password capture
//
// # Model
//
// The broker keeps a stack of open sessions. Only the top of the stack (the
// active leaf) may touch the streams. Opening a subsession pushes a new leaf;
// closing it pops back to the parent and admits the parent's longest-waiting
// queued request. Requests against a session that is not the active leaf
// suspend the calling goroutine until the session becomes the leaf again,
// in strict FIFO order within each session's queue.
//
// Each session carries an autoflush mode, fixed at creation: explicit via
// [WithAutoflush], otherwise inherited from the parent. The root session is
// always autoflush=true and can never be closed.
//
// # Quick Start
//
//	b := sessio.New()
//	b.WriteLine("Hello, world!")
//
//	s, err := b.Open()
//	if err != nil { log.Fatal(err) }
//	s.Write("Say something: ")
//	line, err := s.ReadLine()
//	if err != nil { log.Fatal(err) }
//	s.WriteLine("Thanks for those", len(line)-1, "characters.")
//	s.Close()
package sessio
