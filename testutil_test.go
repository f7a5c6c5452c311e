package sessio

import (
	"bytes"
	"io"
	"sync"
)

// syncBuffer is a goroutine-safe sink standing in for a process stream.
// Test goroutines inspect it while broker operations write concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *syncBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// errWriter fails every write with err.
type errWriter struct {
	err error
}

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

// scriptConsole is a Console test double returning scripted secrets.
// Shared across package test files.
type scriptConsole struct {
	mu      sync.Mutex
	prompts []string
	secrets []string
}

func (c *scriptConsole) ReadLineNoEcho(prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if len(c.secrets) == 0 {
		return "", io.EOF
	}
	secret := c.secrets[0]
	c.secrets = c.secrets[1:]
	return secret, nil
}

func (c *scriptConsole) promptLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// queueLen reports s's admission-queue length.
func (b *Broker) queueLen(s *Session) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(s.waiters)
}

// stackDepth reports the number of open sessions.
func (b *Broker) stackDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stack)
}
