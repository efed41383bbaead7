package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

const lineQueueDepth = 256

// asyncWriter decouples log emission from sink io. Formatted lines are
// queued and drained by a single goroutine into the console and, when
// file logging is configured, the log file. Console lines surface
// immediately; the file rides its buffer until Flush or Close.
type asyncWriter struct {
	lines   chan []byte
	flushes chan chan error
	drained chan struct{}
	stop    sync.Once

	mu      sync.Mutex
	console *bufio.Writer
	file    *bufio.Writer
	failed  error
}

func newAsyncWriter(console, file io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		lines:   make(chan []byte, lineQueueDepth),
		flushes: make(chan chan error),
		drained: make(chan struct{}),
	}
	if console != nil {
		w.console = bufio.NewWriterSize(console, bufSize)
	}
	if file != nil {
		w.file = bufio.NewWriterSize(file, bufSize)
	}
	go w.drain()
	return w
}

func (w *asyncWriter) drain() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				if err := w.flushSinks(); err != nil {
					w.recordFailure(err)
				}
				close(w.drained)
				return
			}
			if err := w.emit(line); err != nil {
				w.recordFailure(err)
			}
		case ack := <-w.flushes:
			// Lines queued before the flush request must reach the
			// sinks before the flush is acknowledged.
			w.drainPending()
			ack <- w.flushSinks()
		}
	}
}

func (w *asyncWriter) drainPending() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				return
			}
			if err := w.emit(line); err != nil {
				w.recordFailure(err)
			}
		default:
			return
		}
	}
}

// Write queues one formatted line. The slice is copied because slog
// handlers reuse their buffers. A full queue blocks the caller instead
// of dropping the line.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.failure(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.lines <- append([]byte(nil), p...)
	return nil
}

// Flush blocks until everything queued so far has reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.failure(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushes <- ack
	return <-ack
}

// Close drains the queue and reports the first write failure, if any.
func (w *asyncWriter) Close() error {
	w.stop.Do(func() { close(w.lines) })
	<-w.drained
	return w.failure()
}

func (w *asyncWriter) emit(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		if _, err := w.file.Write(line); err != nil {
			return err
		}
	}
	if w.console != nil {
		if _, err := w.console.Write(line); err != nil {
			return err
		}
		if err := w.console.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.file != nil {
		errs = append(errs, w.file.Flush())
	}
	if w.console != nil {
		errs = append(errs, w.console.Flush())
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) failure() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failed
}

func (w *asyncWriter) recordFailure(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failed == nil {
		w.failed = err
	}
}
