package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterIgnoresErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.Printf("IR: %v\n", "1, 0")

	var buf bytes.Buffer
	w = NewWriter(&buf)
	w.Printf("Motor: %v @%d\n", "forward", 120)
	if buf.String() != "Motor: forward @120\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestAsyncDelivers(t *testing.T) {
	b := &Buffer{}
	a := NewAsync(b, 8)
	a.Printf("one\n")
	a.Printf("two\n")
	a.Close(time.Second)
	if b.String() != "one\ntwo\n" {
		t.Errorf("unexpected output %q", b.String())
	}
	// Writing after close is dropped, not a panic.
	a.Printf("three\n")
}

type blockingSink struct {
	release chan struct{}
	Buffer
}

func (b *blockingSink) Printf(format string, args ...interface{}) {
	<-b.release
	b.Buffer.Printf(format, args...)
}

func TestAsyncDropsWhenFull(t *testing.T) {
	next := &blockingSink{release: make(chan struct{})}
	a := NewAsync(next, 1)
	start := time.Now()
	for i := 0; i < 100; i++ {
		a.Printf("msg\n")
	}
	if time.Since(start) > time.Second {
		t.Fatal("Printf blocked on a full queue")
	}
	close(next.release)
	a.Close(time.Second)
	if n := strings.Count(next.String(), "msg"); n == 0 || n > 2 {
		t.Errorf("expected one or two messages to survive, got %d", n)
	}
}

func TestBufferReset(t *testing.T) {
	b := &Buffer{}
	b.Printf("x")
	b.Reset()
	if b.String() != "" {
		t.Errorf("buffer not reset: %q", b.String())
	}
	Discard.Printf("ignored %d", 1)
}
