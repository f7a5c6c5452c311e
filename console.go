package sessio

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console is the primordial terminal pair used for password capture.
//
// Password prompts bypass any per-session stream rebinding and always talk
// to the console, so a session writing into a capture buffer still puts the
// prompt in front of the user and still reads the secret from the keyboard.
type Console interface {
	// ReadLineNoEcho writes prompt, then reads one line without echoing it.
	// The returned string carries no trailing newline.
	ReadLineNoEcho(prompt string) (string, error)
}

// NewConsole returns a Console over the given terminal files. On a real
// terminal, echo is suppressed via the terminal driver; when in is not a
// terminal (tests, pipes), the line is read as-is.
func NewConsole(in, out *os.File) Console {
	return &ttyConsole{in: in, out: out}
}

type ttyConsole struct {
	in  *os.File
	out *os.File

	// Lazily created for the non-terminal fallback. Kept across calls so
	// bytes buffered past one line are not lost to the next read.
	r *bufio.Reader
}

func (c *ttyConsole) ReadLineNoEcho(prompt string) (string, error) {
	if _, err := c.out.WriteString(prompt); err != nil {
		return "", err
	}

	fd := int(c.in.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		// ReadPassword swallows the user's newline; emit one so the next
		// write does not land on the prompt line.
		if _, err := c.out.WriteString("\n"); err != nil {
			return "", err
		}
		return string(secret), nil
	}

	if c.r == nil {
		c.r = bufio.NewReader(c.in)
	}
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
