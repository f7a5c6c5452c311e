package sessio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

func TestConsole_FallbackWithoutTerminal(t *testing.T) {
	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer inR.Close()

	outPath := filepath.Join(t.TempDir(), "console-out")
	outFile, err := os.Create(outPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer outFile.Close()

	go func() {
		inW.Write([]byte("swordfish\n"))
		inW.Close()
	}()

	c := NewConsole(inR, outFile)
	secret, err := c.ReadLineNoEcho("Password: ")
	if err != nil {
		t.Fatalf("ReadLineNoEcho: %v", err)
	}
	if secret != "swordfish" {
		t.Fatalf("secret: got %q, want %q", secret, "swordfish")
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(written) != "Password: " {
		t.Fatalf("prompt: got %q, want %q", written, "Password: ")
	}
}

func TestConsole_FallbackConsecutiveReads(t *testing.T) {
	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer inR.Close()

	outFile, err := os.Create(filepath.Join(t.TempDir(), "console-out"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer outFile.Close()

	go func() {
		inW.Write([]byte("first\nsecond\n"))
		inW.Close()
	}()

	c := NewConsole(inR, outFile)
	for _, want := range []string{"first", "second"} {
		got, err := c.ReadLineNoEcho("> ")
		if err != nil {
			t.Fatalf("ReadLineNoEcho: %v", err)
		}
		if got != want {
			t.Fatalf("secret: got %q, want %q", got, want)
		}
	}
}

// Exercises the real terminal path: echo must stay off while the secret is
// typed. Skipped where no PTY can be allocated.
func TestConsole_PTYSuppressesEcho(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	type result struct {
		secret string
		err    error
	}
	resCh := make(chan result, 1)
	go func() {
		c := NewConsole(tty, tty)
		secret, err := c.ReadLineNoEcho("Password: ")
		resCh <- result{secret, err}
	}()

	// Collect master-side output until the prompt has fully arrived.
	var seen strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	buf := make([]byte, 256)
	for !strings.Contains(seen.String(), "Password: ") {
		if time.Now().After(deadline) {
			t.Fatalf("prompt never arrived, saw %q", seen.String())
		}
		ptmx.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, err := ptmx.Read(buf)
		if n > 0 {
			seen.Write(buf[:n])
		}
		if err != nil && !os.IsTimeout(err) {
			t.Fatalf("read master: %v", err)
		}
	}

	if _, err := ptmx.Write([]byte("hunter2\n")); err != nil {
		t.Fatalf("write master: %v", err)
	}

	select {
	case res := <-resCh:
		if res.err != nil {
			t.Fatalf("ReadLineNoEcho: %v", res.err)
		}
		if res.secret != "hunter2" {
			t.Fatalf("secret: got %q, want %q", res.secret, "hunter2")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ReadLineNoEcho did not return")
	}

	// Drain whatever else the master sees; the typed secret must not have
	// been echoed back.
	for {
		ptmx.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, err := ptmx.Read(buf)
		if n > 0 {
			seen.Write(buf[:n])
			continue
		}
		if err != nil {
			break
		}
	}
	if strings.Contains(seen.String(), "hunter2") {
		t.Fatalf("secret was echoed: %q", seen.String())
	}
}
