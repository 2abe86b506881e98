package response

import (
	"sync"

	"github.com/getmockd/hookd/pkg/space"
)

// Store holds at most one Config per space. Writes replace, never merge.
// The store does not validate; callers store Normalize output.
type Store struct {
	spaces *space.Registry

	mu      sync.RWMutex
	configs map[string]Config
}

// NewStore creates an empty configuration store.
func NewStore(spaces *space.Registry) *Store {
	return &Store{
		spaces:  spaces,
		configs: make(map[string]Config),
	}
}

// Get returns the space's configuration, if one was set.
func (s *Store) Get(spaceKey string) (Config, bool) {
	s.spaces.Ensure(spaceKey)

	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[spaceKey]
	if !ok {
		return Config{}, false
	}
	return cfg.clone(), true
}

// GetOrDefault returns the space's configuration or Default().
func (s *Store) GetOrDefault(spaceKey string) Config {
	if cfg, ok := s.Get(spaceKey); ok {
		return cfg
	}
	return Default()
}

// Set replaces the space's configuration.
func (s *Store) Set(spaceKey string, cfg Config) {
	s.spaces.Ensure(spaceKey)

	s.mu.Lock()
	s.configs[spaceKey] = cfg.clone()
	s.mu.Unlock()
}
