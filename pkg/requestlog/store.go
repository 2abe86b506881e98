package requestlog

import (
	"errors"
	"strings"
)

// DefaultMaxEntriesPerSpace is the number of records retained per space.
const DefaultMaxEntriesPerSpace = 500

// DefaultListLimit is used when a Filter does not set a positive Limit.
const DefaultListLimit = 100

// MethodAll disables method filtering.
const MethodAll = "ALL"

// ErrNotFound is returned when a record does not exist in a space.
var ErrNotFound = errors.New("requestlog: record not found")

// Publisher receives every appended record.
// Implementations must not block.
type Publisher interface {
	Publish(space string, rec *CapturedRequest)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(space string, rec *CapturedRequest)

// Publish calls f(space, rec).
func (f PublisherFunc) Publish(space string, rec *CapturedRequest) {
	f(space, rec)
}

// Filter defines criteria for listing records.
type Filter struct {
	// Limit is the maximum number of records to return. Values <= 0 use DefaultListLimit.
	Limit int

	// Search is a case-insensitive substring matched against the URL and body.
	Search string

	// Method keeps only records with this HTTP method. Empty or "ALL" keeps every method.
	Method string
}

type matcher struct {
	method string
	search string
}

func newMatcher(f Filter) matcher {
	m := matcher{search: strings.ToLower(strings.TrimSpace(f.Search))}
	if f.Method != "" && f.Method != MethodAll {
		m.method = f.Method
	}
	return m
}

func (m matcher) match(rec *CapturedRequest) bool {
	if m.method != "" && rec.Method != m.method {
		return false
	}
	if m.search == "" {
		return true
	}
	haystack := strings.ToLower(rec.URL + "\n" + rec.BodyRaw)
	return strings.Contains(haystack, m.search)
}
