// Package diag is the best-effort text sink for mode decisions and sensor
// snapshots. Nothing written here is allowed to block or fail a control tick.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Sink interface {
	Printf(format string, args ...interface{})
}

// Writer formats messages onto an io.Writer and ignores write errors.
type Writer struct {
	lock sync.Mutex
	out  io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func Stdout() *Writer {
	return NewWriter(os.Stdout)
}

func (w *Writer) Printf(format string, args ...interface{}) {
	w.lock.Lock()
	defer w.lock.Unlock()
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// Async hands messages to a background writer.  If the queue is full the
// message is dropped rather than stalling the caller.
type Async struct {
	msgs chan string
	done chan struct{}
}

func NewAsync(next Sink, depth int) *Async {
	a := &Async{
		msgs: make(chan string, depth),
		done: make(chan struct{}),
	}
	go func() {
		defer close(a.done)
		for m := range a.msgs {
			next.Printf("%s", m)
		}
	}()
	return a
}

func (a *Async) Printf(format string, args ...interface{}) {
	defer func() {
		recover() // Closed queue; drop.
	}()
	select {
	case a.msgs <- fmt.Sprintf(format, args...):
	default:
	}
}

// Close flushes what is queued, waiting at most timeout.
func (a *Async) Close(timeout time.Duration) {
	close(a.msgs)
	select {
	case <-a.done:
	case <-time.After(timeout):
	}
}

// Discard drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}

// Buffer captures output; used by tests and the monitor.
type Buffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *Buffer) Printf(format string, args ...interface{}) {
	b.lock.Lock()
	defer b.lock.Unlock()
	fmt.Fprintf(&b.buf, format, args...)
}

func (b *Buffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func (b *Buffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.buf.Reset()
}
