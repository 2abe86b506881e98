// Package response stores the per-space synthetic response configuration and
// normalizes configuration writes.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"strings"
)

// Defaults applied to configuration writes.
const (
	DefaultStatus      = 200
	DefaultContentType = "application/json"
	DefaultBody        = `{"ok":true}`

	MinStatus = 100
	MaxStatus = 599

	// MaxDelayMs caps delayMs (about 24.8 days) so the delay always fits a
	// time.Duration.
	MaxDelayMs = math.MaxInt32
)

// ErrInvalidConfig is returned when a configuration payload cannot be decoded.
var ErrInvalidConfig = errors.New("response: invalid config")

// Config is the canned response a space answers captures with.
type Config struct {
	Status      int               `json:"status"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
	ContentType string            `json:"contentType"`
	DelayMs     int               `json:"delayMs"`
}

// Partial is a configuration write as received over the wire. Absent fields
// are filled with defaults by Normalize.
type Partial struct {
	Status      *int              `json:"status,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`
	ContentType *string           `json:"contentType,omitempty"`
	DelayMs     *int              `json:"delayMs,omitempty"`
}

// Default returns the configuration reported for spaces that have none.
func Default() Config {
	return Config{
		Status:      DefaultStatus,
		Headers:     map[string]string{"content-type": DefaultContentType},
		Body:        DefaultBody,
		ContentType: DefaultContentType,
		DelayMs:     0,
	}
}

// Decode reads a Partial from r.
func Decode(r io.Reader) (Partial, error) {
	var p Partial
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Partial{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Normalize fills defaults and clamps the fields of a configuration write.
func Normalize(p Partial) Config {
	cfg := Config{Status: DefaultStatus}

	if p.Status != nil {
		cfg.Status = clampStatus(*p.Status)
	}

	if p.Headers != nil {
		cfg.Headers = maps.Clone(p.Headers)
	} else {
		ct := DefaultContentType
		if p.ContentType != nil {
			ct = *p.ContentType
		}
		cfg.Headers = map[string]string{"content-type": ct}
	}

	cfg.Body = normalizeBody(p.Body)

	switch {
	case p.ContentType != nil:
		cfg.ContentType = *p.ContentType
	default:
		if ct, ok := headerValue(cfg.Headers, "content-type"); ok {
			cfg.ContentType = ct
		} else {
			cfg.ContentType = DefaultContentType
		}
	}

	if p.DelayMs != nil {
		cfg.DelayMs = min(max(0, *p.DelayMs), MaxDelayMs)
	}

	return cfg
}

func (c Config) clone() Config {
	out := c
	out.Headers = maps.Clone(c.Headers)
	return out
}

// ResponseHeaders returns the headers to send: the configured mapping, plus
// content-type when ContentType is set and the mapping has none.
func (c Config) ResponseHeaders() map[string]string {
	h := maps.Clone(c.Headers)
	if h == nil {
		h = make(map[string]string, 1)
	}
	if c.ContentType != "" {
		if _, ok := headerValue(h, "content-type"); !ok {
			h["content-type"] = c.ContentType
		}
	}
	return h
}

func clampStatus(s int) int {
	return min(max(s, MinStatus), MaxStatus)
}

// normalizeBody keeps string bodies as-is and serializes any other JSON value.
func normalizeBody(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return DefaultBody
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

func headerValue(h map[string]string, name string) (string, bool) {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
