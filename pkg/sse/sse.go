// Package sse implements the Server-Sent Events framing used by the capture
// event stream, for both the server (Stream) and consumers (Reader).
package sse

import (
	"errors"
	"time"
)

const (
	// ContentTypeEventStream is the MIME type for SSE responses.
	ContentTypeEventStream = "text/event-stream"

	// DefaultKeepaliveInterval is the default keepalive interval.
	DefaultKeepaliveInterval = 15 * time.Second

	// MaxEventDataSize is the largest data line a Reader accepts.
	MaxEventDataSize = 1 << 20 // 1MB
)

// SSE field prefixes.
const (
	fieldData    = "data:"
	fieldComment = ":"
)

// ReadyMessage is sent as the first event of every stream.
const ReadyMessage = `{"type":"ready"}`

var (
	// ErrFlusherNotSupported indicates the response writer doesn't support flushing.
	ErrFlusherNotSupported = errors.New("sse: flusher not supported")

	// ErrEventTooLarge indicates the event data exceeds size limit.
	ErrEventTooLarge = errors.New("sse: event data too large")
)
