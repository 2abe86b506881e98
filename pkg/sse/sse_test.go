package sse

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatData(t *testing.T) {
	assert.Equal(t, "data: {\"a\":1}\n\n", FormatData(`{"a":1}`))
	assert.Equal(t, "data: one\ndata: two\n\n", FormatData("one\ntwo"))
	assert.Equal(t, "data: one\ndata: two\n\n", FormatData("one\r\ntwo"))
}

func TestFormatKeepalive(t *testing.T) {
	assert.Equal(t, ": keepalive\n\n", FormatKeepalive())
}

func TestNewStream_Headers(t *testing.T) {
	rec := httptest.NewRecorder()

	s, err := NewStream(rec)
	require.NoError(t, err)
	require.NoError(t, s.Send([]byte(ReadyMessage)))
	require.NoError(t, s.Keepalive())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-transform", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.True(t, rec.Flushed)
	assert.Equal(t, "data: {\"type\":\"ready\"}\n\n: keepalive\n\n", rec.Body.String())
}

// nonFlushingResponseWriter is a ResponseWriter that doesn't implement Flusher
type nonFlushingResponseWriter struct {
	header http.Header
}

func (w *nonFlushingResponseWriter) Header() http.Header         { return w.header }
func (w *nonFlushingResponseWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *nonFlushingResponseWriter) WriteHeader(int)             {}

func TestNewStream_RequiresFlusher(t *testing.T) {
	_, err := NewStream(&nonFlushingResponseWriter{header: make(http.Header)})
	assert.ErrorIs(t, err, ErrFlusherNotSupported)
}

func TestReader(t *testing.T) {
	stream := ": keepalive\n\n" +
		"data: {\"type\":\"ready\"}\n\n" +
		"event: ignored\n" +
		"data:first\n" +
		"data: second\n\n" +
		"data: tail"

	r := NewReader(strings.NewReader(stream))

	got, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, ReadyMessage, got)

	got, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)

	got, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "tail", got)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_RoundTrip(t *testing.T) {
	payload := "line one\nline two"
	r := NewReader(strings.NewReader(FormatData(payload) + FormatKeepalive() + FormatData("x")))

	got, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
