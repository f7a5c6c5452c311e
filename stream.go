package sessio

import (
	"bufio"
	"io"
)

// Output is one writable stream capability (stdout or stderr).
//
// Output is an interface to allow capture buffers, files, and sockets to
// stand in for the process streams. Implementations are assumed reliable
// collaborators: the broker treats their failures as opaque and does not
// retry.
type Output interface {
	// Write appends p to the stream. Whether the bytes become visible
	// immediately depends on Flush and the session's autoflush mode.
	Write(p []byte) error

	// Flush forces buffered bytes out to the underlying sink.
	Flush() error
}

// Input is the readable stream capability (stdin).
type Input interface {
	// ReadExact reads exactly n bytes. It returns fewer than n bytes only
	// at end of stream: the short remainder with a nil error, or io.EOF
	// when nothing remains at all. n <= 0 returns an empty slice.
	ReadExact(n int) ([]byte, error)

	// ReadLine reads up to and including the next newline. At end of
	// stream it returns the final partial line without a trailing newline;
	// if nothing remains it returns io.EOF.
	ReadLine() ([]byte, error)
}

// NewOutput wraps w in a buffered Output. Bytes accumulate until Flush;
// sessions with autoflush enabled flush after every write.
func NewOutput(w io.Writer) Output {
	return &bufOutput{w: bufio.NewWriter(w)}
}

type bufOutput struct {
	w *bufio.Writer
}

func (o *bufOutput) Write(p []byte) error {
	_, err := o.w.Write(p)
	return err
}

func (o *bufOutput) Flush() error {
	return o.w.Flush()
}

// NewInput wraps r in a buffered Input.
func NewInput(r io.Reader) Input {
	return &bufInput{r: bufio.NewReader(r)}
}

type bufInput struct {
	r *bufio.Reader
}

func (i *bufInput) ReadExact(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(i.r, buf)
	if read > 0 && err == io.ErrUnexpectedEOF {
		// Short remainder at end of stream. The next call reports io.EOF.
		err = nil
	}
	return buf[:read], err
}

func (i *bufInput) ReadLine() ([]byte, error) {
	line, err := i.r.ReadBytes('\n')
	if len(line) > 0 && err == io.EOF {
		// Final partial line: deliver it now, report EOF on the next call.
		return line, nil
	}
	return line, err
}
