package run

import (
	"bytes"
	"fmt"
	"io"
)

// drain accumulates one output stream in the background. The submitted
// task owns buf and err exclusively until done is closed; await provides
// the happens-before edge that makes them safe to read afterwards.
type drain struct {
	buf  bytes.Buffer
	err  error
	done chan struct{}
}

// startDrain submits a task that reads r into memory until end-of-stream.
// OS pipes have bounded kernel buffers: without a reader, a child whose
// output exceeds the buffer blocks on write forever, which would defeat a
// deadline applied only to the wait-for-exit. Drains are therefore started
// before the engine blocks on process termination.
//
// The task terminates when the pipe reaches EOF, which is guaranteed once
// the child's descriptors close (on natural exit and on forced kill alike,
// since the parent's write ends were already closed at launch). No
// separate timeout on the drain itself is needed.
func startDrain(tasks TaskRunner, name string, r io.Reader) (*drain, error) {
	d := &drain{done: make(chan struct{})}
	err := tasks.Submit(func() {
		defer close(d.done)
		if _, err := io.Copy(&d.buf, r); err != nil {
			d.err = fmt.Errorf("drain %s: %w", name, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("submit %s drain task: %w", name, err)
	}
	return d, nil
}

// await blocks until the drain task has observed end-of-stream and returns
// the full accumulated bytes. The returned error reports a read failure;
// the bytes captured before the failure are still returned.
func (d *drain) await() ([]byte, error) {
	<-d.done
	return d.buf.Bytes(), d.err
}
