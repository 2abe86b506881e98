// Package space tracks the namespaces that captured traffic is filed under.
//
// A space is created implicitly the first time any operation references its
// key and is never deleted for the lifetime of the process.
package space

import (
	"sort"
	"sync"
	"time"

	"github.com/getmockd/hookd/internal/id"
)

// Space is a namespace for captured requests.
type Space struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	CreatedAt int64  `json:"createdAt"`

	seq uint64
}

// Registry maps space keys to their records.
type Registry struct {
	mu     sync.RWMutex
	spaces map[string]*Space
	seq    uint64
	now    func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		spaces: make(map[string]*Space),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ensure returns the space for key, creating it on first use.
// The second return value reports whether this call created it.
func (r *Registry) Ensure(key string) (Space, bool) {
	r.mu.RLock()
	s, ok := r.spaces[key]
	r.mu.RUnlock()
	if ok {
		return *s, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Double-check after acquiring write lock
	if s, ok = r.spaces[key]; ok {
		return *s, false
	}
	s = r.insertLocked(key, "")
	return *s, true
}

// Create registers a new space under a generated key.
func (r *Registry) Create(name string) Space {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := id.UUID()
	for r.spaces[key] != nil {
		key = id.UUID()
	}
	return *r.insertLocked(key, name)
}

// Get returns the space for key without creating it.
func (r *Registry) Get(key string) (Space, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spaces[key]
	if !ok {
		return Space{}, false
	}
	return *s, true
}

// List returns every known space, most recently created first.
func (r *Registry) List() []Space {
	r.mu.RLock()
	out := make([]Space, 0, len(r.spaces))
	for _, s := range r.spaces {
		out = append(out, *s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].seq > out[j].seq
	})
	return out
}

// Len returns the number of known spaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spaces)
}

func (r *Registry) insertLocked(key, name string) *Space {
	r.seq++
	s := &Space{
		ID:        key,
		Name:      name,
		CreatedAt: r.now().UnixMilli(),
		seq:       r.seq,
	}
	r.spaces[key] = s
	return s
}
