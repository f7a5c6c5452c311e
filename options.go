package sessio

import (
	"io"

	"go.uber.org/zap"
)

// brokerConfig holds resolved configuration for New.
type brokerConfig struct {
	stdout  io.Writer
	stderr  io.Writer
	stdin   io.Reader
	console Console
	log     *zap.Logger
}

// Option configures a [New] invocation.
type Option func(*brokerConfig)

// WithStdout sets the writer behind the broker's stdout handle.
// Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(c *brokerConfig) {
		c.stdout = w
	}
}

// WithStderr sets the writer behind the broker's stderr handle.
// Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(c *brokerConfig) {
		c.stderr = w
	}
}

// WithStdin sets the reader behind the broker's stdin handle.
// Defaults to os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(c *brokerConfig) {
		c.stdin = r
	}
}

// WithConsole sets the primordial console used for password capture.
// Defaults to the process terminal (os.Stdin / os.Stdout).
func WithConsole(console Console) Option {
	return func(c *brokerConfig) {
		c.console = console
	}
}

// WithLogger sets the broker's structured logger. Defaults to a no-op
// logger; session lifecycle and queue activity log at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(c *brokerConfig) {
		c.log = log
	}
}

// sessionConfig holds resolved configuration for opening a subsession.
type sessionConfig struct {
	autoflush *bool
	stdout    Output
	stderr    Output
	stdin     Input
}

// SessionOption configures a subsession at creation.
type SessionOption func(*sessionConfig)

// WithAutoflush fixes the subsession's autoflush mode. When absent, the
// mode is inherited from the parent session.
func WithAutoflush(autoflush bool) SessionOption {
	return func(c *sessionConfig) {
		c.autoflush = &autoflush
	}
}

// RedirectStdout rebinds the subsession's stdout to w. Inherited writes
// from Password are unaffected: password capture always uses the console.
func RedirectStdout(w io.Writer) SessionOption {
	return func(c *sessionConfig) {
		c.stdout = NewOutput(w)
	}
}

// RedirectStderr rebinds the subsession's stderr to w.
func RedirectStderr(w io.Writer) SessionOption {
	return func(c *sessionConfig) {
		c.stderr = NewOutput(w)
	}
}

// RedirectStdin rebinds the subsession's stdin to r.
func RedirectStdin(r io.Reader) SessionOption {
	return func(c *sessionConfig) {
		c.stdin = NewInput(r)
	}
}

// FlushMode overrides a session's autoflush for a single write.
type FlushMode int

const (
	// FlushSession uses the session's autoflush mode.
	FlushSession FlushMode = iota

	// FlushAlways flushes after this write.
	FlushAlways

	// FlushNever leaves this write buffered.
	FlushNever
)

// WriteOptions carries per-call overrides for [Session.WriteWith] and
// [Session.WriteLineWith].
type WriteOptions struct {
	// Sep separates the stringified values. Empty means a single space;
	// to join values with nothing in between, pre-concatenate them.
	Sep string

	// Stderr targets the session's stderr stream instead of stdout.
	Stderr bool

	// Flush overrides the session's autoflush mode for this write.
	Flush FlushMode
}

// resolveOptions applies functional options and returns the resolved config.
func resolveOptions(opts ...Option) brokerConfig {
	var cfg brokerConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// resolveSessionOptions applies subsession options.
func resolveSessionOptions(opts ...SessionOption) sessionConfig {
	var cfg sessionConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
