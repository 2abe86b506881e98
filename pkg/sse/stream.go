package sse

import (
	"io"
	"net/http"
	"time"
)

// Stream writes events to an HTTP response.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewStream prepares w for event streaming: it checks that the writer can
// flush, clears any server write deadline, sets the SSE headers and sends
// the status line.
func NewStream(w http.ResponseWriter) (*Stream, error) {
	if _, ok := w.(http.Flusher); !ok {
		return nil, ErrFlusherNotSupported
	}

	rc := http.NewResponseController(w)
	// Long-lived streams must outlive http.Server.WriteTimeout.
	_ = rc.SetWriteDeadline(time.Time{})

	SetHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return nil, err
	}
	return &Stream{w: w, rc: rc}, nil
}

// SetHeaders sets the response headers for an event stream.
func SetHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", ContentTypeEventStream)
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
}

// Send writes one data event and flushes it.
func (s *Stream) Send(data []byte) error {
	return s.write(FormatData(string(data)))
}

// Keepalive writes a comment line and flushes it.
func (s *Stream) Keepalive() error {
	return s.write(FormatKeepalive())
}

func (s *Stream) write(frame string) error {
	if _, err := io.WriteString(s.w, frame); err != nil {
		return err
	}
	return s.rc.Flush()
}
