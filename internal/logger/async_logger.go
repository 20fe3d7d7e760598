// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// AsyncLogger buffers writes to an underlying io.Writer (typically a
// lumberjack.Logger performing file rotation) on a bounded channel, so a
// lock-holding goroutine logging a message never blocks on disk I/O. When
// the buffer is full, a message is dropped and a warning is printed to
// stderr rather than applying backpressure to the caller.
type AsyncLogger struct {
	out    io.Writer
	msgs   chan []byte
	done   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// NewAsyncLogger starts a background goroutine draining into out, with
// room for bufferSize pending messages.
func NewAsyncLogger(out io.Writer, bufferSize int) *AsyncLogger {
	l := &AsyncLogger{
		out:    out,
		msgs:   make(chan []byte, bufferSize),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *AsyncLogger) run() {
	defer close(l.closed)
	for {
		select {
		case msg, ok := <-l.msgs:
			if !ok {
				return
			}
			l.out.Write(msg)
		case <-l.done:
			for {
				select {
				case msg := <-l.msgs:
					l.out.Write(msg)
				default:
					return
				}
			}
		}
	}
}

// Write implements io.Writer. p is copied before buffering since the
// caller may reuse it.
func (l *AsyncLogger) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)

	select {
	case l.msgs <- buf:
	default:
		fmt.Fprintln(os.Stderr, "asynclogger: log buffer is full, dropping message.")
	}
	return len(p), nil
}

// Close signals the drain goroutine to flush every buffered message and
// stop, then waits for it to finish. If out implements io.Closer, it is
// closed afterward.
func (l *AsyncLogger) Close() error {
	l.once.Do(func() {
		close(l.done)
	})
	<-l.closed

	if closer, ok := l.out.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
