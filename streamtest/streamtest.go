package streamtest

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sessio/sessio"
)

// RunOutputTests tests the [sessio.Output] behavioral contract. The factory
// is called once per subtest with a fresh sink to inspect.
func RunOutputTests(t *testing.T, factory func(sink *bytes.Buffer) sessio.Output) {
	t.Helper()

	t.Run("WriteThenFlushReachesSink", func(t *testing.T) {
		var sink bytes.Buffer
		out := factory(&sink)
		if err := out.Write([]byte("hello")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := out.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		if got := sink.String(); got != "hello" {
			t.Fatalf("sink after flush: got %q, want %q", got, "hello")
		}
	})

	t.Run("WritesStayOrdered", func(t *testing.T) {
		var sink bytes.Buffer
		out := factory(&sink)
		for _, chunk := range []string{"a", "bb", "ccc", "\n", "d"} {
			if err := out.Write([]byte(chunk)); err != nil {
				t.Fatalf("Write(%q): %v", chunk, err)
			}
		}
		if err := out.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		if got := sink.String(); got != "abbccc\nd" {
			t.Fatalf("sink: got %q, want %q", got, "abbccc\nd")
		}
	})

	t.Run("FlushWithoutWrites", func(t *testing.T) {
		var sink bytes.Buffer
		out := factory(&sink)
		if err := out.Flush(); err != nil {
			t.Fatalf("Flush on empty output: %v", err)
		}
		if sink.Len() != 0 {
			t.Fatalf("empty flush produced output: %q", sink.String())
		}
	})

	t.Run("EmptyWrite", func(t *testing.T) {
		var sink bytes.Buffer
		out := factory(&sink)
		if err := out.Write(nil); err != nil {
			t.Fatalf("Write(nil): %v", err)
		}
		if err := out.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		if sink.Len() != 0 {
			t.Fatalf("nil write produced output: %q", sink.String())
		}
	})
}

// RunInputTests tests the [sessio.Input] behavioral contract. The factory
// is called once per subtest with the source the input should read from.
func RunInputTests(t *testing.T, factory func(src io.Reader) sessio.Input) {
	t.Helper()

	t.Run("ReadExact", func(t *testing.T) {
		in := factory(strings.NewReader("abcdef"))
		got, err := in.ReadExact(4)
		if err != nil {
			t.Fatalf("ReadExact(4): %v", err)
		}
		if string(got) != "abcd" {
			t.Fatalf("ReadExact(4): got %q, want %q", got, "abcd")
		}
	})

	t.Run("ReadExactShortAtEOF", func(t *testing.T) {
		in := factory(strings.NewReader("ab"))
		got, err := in.ReadExact(5)
		if err != nil {
			t.Fatalf("short read should not error, got %v", err)
		}
		if string(got) != "ab" {
			t.Fatalf("short read: got %q, want %q", got, "ab")
		}
		if _, err := in.ReadExact(1); !errors.Is(err, io.EOF) {
			t.Fatalf("read past end: got %v, want io.EOF", err)
		}
	})

	t.Run("ReadExactZero", func(t *testing.T) {
		in := factory(strings.NewReader("abc"))
		got, err := in.ReadExact(0)
		if err != nil {
			t.Fatalf("ReadExact(0): %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("ReadExact(0): got %q, want empty", got)
		}
	})

	t.Run("ReadLineKeepsNewline", func(t *testing.T) {
		in := factory(strings.NewReader("one\ntwo\n"))
		got, err := in.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if string(got) != "one\n" {
			t.Fatalf("ReadLine: got %q, want %q", got, "one\n")
		}
	})

	t.Run("ReadLineFinalPartial", func(t *testing.T) {
		in := factory(strings.NewReader("one\nlast"))
		if _, err := in.ReadLine(); err != nil {
			t.Fatalf("first ReadLine: %v", err)
		}
		got, err := in.ReadLine()
		if err != nil {
			t.Fatalf("partial final line should not error, got %v", err)
		}
		if string(got) != "last" {
			t.Fatalf("final line: got %q, want %q", got, "last")
		}
		if _, err := in.ReadLine(); !errors.Is(err, io.EOF) {
			t.Fatalf("read past end: got %v, want io.EOF", err)
		}
	})

	t.Run("ReadLineEmptySource", func(t *testing.T) {
		in := factory(strings.NewReader(""))
		if _, err := in.ReadLine(); !errors.Is(err, io.EOF) {
			t.Fatalf("empty source: got %v, want io.EOF", err)
		}
	})

	t.Run("InterleavedExactAndLine", func(t *testing.T) {
		in := factory(strings.NewReader("abc123: rest of line\n"))
		got, err := in.ReadExact(3)
		if err != nil {
			t.Fatalf("ReadExact(3): %v", err)
		}
		if string(got) != "abc" {
			t.Fatalf("ReadExact(3): got %q, want %q", got, "abc")
		}
		line, err := in.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine after ReadExact: %v", err)
		}
		if string(line) != "123: rest of line\n" {
			t.Fatalf("ReadLine: got %q, want %q", line, "123: rest of line\n")
		}
	})
}
