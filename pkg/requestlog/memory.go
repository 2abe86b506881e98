package requestlog

import (
	"sync"
	"time"

	"github.com/getmockd/hookd/internal/id"
	"github.com/getmockd/hookd/pkg/space"
)

// Store is the in-memory request history, partitioned by space.
type Store struct {
	spaces     *space.Registry
	maxEntries int
	publisher  Publisher
	now        func() time.Time

	mu   sync.RWMutex
	logs map[string]*spaceLog
}

// spaceLog is a circular buffer of one space's records.
type spaceLog struct {
	mu      sync.RWMutex
	entries []*CapturedRequest
	head    int // next write position
	count   int
}

// Option configures a Store.
type Option func(*Store)

// WithMaxEntries sets the per-space retention cap.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithPublisher sets the hook notified of every append.
func WithPublisher(p Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a request store backed by the given space registry.
func NewStore(spaces *space.Registry, opts ...Option) *Store {
	s := &Store{
		spaces:     spaces,
		maxEntries: DefaultMaxEntriesPerSpace,
		now:        time.Now,
		logs:       make(map[string]*spaceLog),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxEntries returns the per-space retention cap.
func (s *Store) MaxEntries() int {
	return s.maxEntries
}

// Append stamps rec with an ID, the owning space and the current time,
// inserts it as the newest record and publishes it.
// rec must not be modified by the caller afterwards.
func (s *Store) Append(spaceKey string, rec *CapturedRequest) *CapturedRequest {
	l := s.log(spaceKey)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Stamped under the lock so insertion order matches createdAt order.
	rec.ID = id.UUID()
	rec.SpaceID = spaceKey
	rec.CreatedAt = s.now().UnixMilli()

	l.entries[l.head] = rec
	l.head = (l.head + 1) % len(l.entries)
	if l.count < len(l.entries) {
		l.count++
	}

	// Publishing under the space lock keeps observers in store order.
	if s.publisher != nil {
		s.publisher.Publish(spaceKey, rec)
	}
	return rec
}

// List returns the space's records, most recent first, filtered and limited.
func (s *Store) List(spaceKey string, filter Filter) []*CapturedRequest {
	l := s.log(spaceKey)

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	m := newMatcher(filter)

	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*CapturedRequest, 0, min(limit, l.count))
	for i := 0; i < l.count && len(result) < limit; i++ {
		rec := l.at(i)
		if m.match(rec) {
			result = append(result, rec)
		}
	}
	return result
}

// Get returns the record with the given ID, or ErrNotFound.
func (s *Store) Get(spaceKey, recordID string) (*CapturedRequest, error) {
	l := s.log(spaceKey)

	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := 0; i < l.count; i++ {
		if rec := l.at(i); rec.ID == recordID {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Count returns the number of records held for the space.
func (s *Store) Count(spaceKey string) int {
	l := s.log(spaceKey)

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// Clear drops the space's history and returns how many records were removed.
func (s *Store) Clear(spaceKey string) int {
	l := s.log(spaceKey)

	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.count
	clear(l.entries)
	l.head = 0
	l.count = 0
	return n
}

// log returns the space's buffer, creating the space on first reference.
func (s *Store) log(spaceKey string) *spaceLog {
	s.spaces.Ensure(spaceKey)

	s.mu.RLock()
	l, ok := s.logs[spaceKey]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.logs[spaceKey]; ok {
		return l
	}
	l = &spaceLog{entries: make([]*CapturedRequest, s.maxEntries)}
	s.logs[spaceKey] = l
	return l
}

// at returns the i-th newest record. Caller holds l.mu.
func (l *spaceLog) at(i int) *CapturedRequest {
	n := len(l.entries)
	return l.entries[(l.head-1-i+n)%n]
}
