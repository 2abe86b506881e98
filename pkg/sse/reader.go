package sse

import (
	"bufio"
	"io"
	"strings"
)

// Reader decodes data events from an event stream. Comments and fields other
// than data are skipped.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxEventDataSize)
	return &Reader{scanner: scanner}
}

// Next returns the data of the next event. Multiple data lines are joined
// with "\n". It returns io.EOF when the stream ends.
func (r *Reader) Next() (string, error) {
	var (
		lines   []string
		hasData bool
	)
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			if hasData {
				return strings.Join(lines, "\n"), nil
			}
			continue
		}
		if strings.HasPrefix(line, fieldComment) {
			continue
		}
		if value, ok := strings.CutPrefix(line, fieldData); ok {
			lines = append(lines, strings.TrimPrefix(value, " "))
			hasData = true
		}
	}
	if err := r.scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return "", ErrEventTooLarge
		}
		return "", err
	}
	if hasData {
		return strings.Join(lines, "\n"), nil
	}
	return "", io.EOF
}
