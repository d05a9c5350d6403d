// Package sse writes server-sent event frames onto a live HTTP response.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ErrClosed is returned by Emit after Close
var ErrClosed = errors.New("sse: writer closed")

// Writer serializes typed events onto a single long-lived response as
// "event: <name>\ndata: <json>\n\n" frames. Headers are sent and flushed at
// construction time, before any work producing events has started, so the
// client observes a live connection immediately. Writes after the client
// disconnects fail with the transport error and must not panic.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewWriter sends the event-stream headers, flushes them and returns a
// ready-to-emit writer
func NewWriter(w http.ResponseWriter) *Writer {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	return &Writer{w: w, flusher: flusher}
}

// Emit writes one frame and flushes it. Each call is an irreversible,
// ordered write; there is no buffering of ready events.
func (s *Writer) Emit(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal %s payload: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return fmt.Errorf("sse: write %s frame: %w", event, err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// Close terminates the stream. Subsequent Emit calls return ErrClosed.
func (s *Writer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
