// Package eventbus fans newly captured requests out to live observers of a space.
//
// Delivery is best-effort: each subscription owns a buffered channel and
// Publish never blocks. When a subscriber's buffer is full the event is
// dropped for that subscriber only. Events reach each subscriber in publish
// order.
package eventbus

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getmockd/hookd/internal/id"
	"github.com/getmockd/hookd/pkg/logging"
	"github.com/getmockd/hookd/pkg/requestlog"
	"github.com/getmockd/hookd/pkg/space"
)

// DefaultBufferSize is the per-subscription channel capacity.
const DefaultBufferSize = 64

// DefaultHeartbeatInterval is how often stream transports send keep-alives.
const DefaultHeartbeatInterval = 15 * time.Second

// Bus routes published records to the subscribers of their space.
type Bus struct {
	spaces     *space.Registry
	bufferSize int
	log        *slog.Logger

	mu   sync.RWMutex
	hubs map[string]*hub

	dropped atomic.Uint64
}

type hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Option configures a Bus.
type Option func(*Bus)

// WithBufferSize sets the per-subscription channel capacity.
func WithBufferSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// WithLogger sets the logger used for dropped-event warnings.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		b.log = logging.OrNop(l)
	}
}

// New creates an event bus.
func New(spaces *space.Registry, opts ...Option) *Bus {
	b := &Bus{
		spaces:     spaces,
		bufferSize: DefaultBufferSize,
		log:        logging.Nop(),
		hubs:       make(map[string]*hub),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers an observer for the space.
// The caller must Close the subscription when done.
func (b *Bus) Subscribe(spaceKey string) *Subscription {
	h := b.hub(spaceKey)
	sub := &Subscription{
		id:    id.Short(),
		space: spaceKey,
		ch:    make(chan *requestlog.CapturedRequest, b.bufferSize),
		hub:   h,
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Publish delivers rec to every current subscriber of the space without blocking.
func (b *Bus) Publish(spaceKey string, rec *requestlog.CapturedRequest) {
	b.mu.RLock()
	h, ok := b.hubs[spaceKey]
	b.mu.RUnlock()
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- rec:
		default:
			b.dropped.Add(1)
			sub.dropped.Add(1)
			b.log.Warn("dropping event for slow observer",
				"space", spaceKey,
				"subscription", sub.id,
				"record", rec.ID)
		}
	}
}

// Stats reports active subscriptions per space and the total dropped events.
type Stats struct {
	Subscribers map[string]int `json:"subscribers"`
	Dropped     uint64         `json:"dropped"`
}

// Stats returns a snapshot of the bus state.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Stats{
		Subscribers: make(map[string]int, len(b.hubs)),
		Dropped:     b.dropped.Load(),
	}
	for key, h := range b.hubs {
		h.mu.RLock()
		if n := len(h.subs); n > 0 {
			s.Subscribers[key] = n
		}
		h.mu.RUnlock()
	}
	return s
}

// SubscriberCount returns the number of open subscriptions for the space.
func (b *Bus) SubscriberCount(spaceKey string) int {
	b.mu.RLock()
	h, ok := b.hubs[spaceKey]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (b *Bus) hub(spaceKey string) *hub {
	b.spaces.Ensure(spaceKey)

	b.mu.RLock()
	h, ok := b.hubs[spaceKey]
	b.mu.RUnlock()
	if ok {
		return h
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if h, ok = b.hubs[spaceKey]; ok {
		return h
	}
	h = &hub{subs: make(map[*Subscription]struct{})}
	b.hubs[spaceKey] = h
	return h
}

// Subscription is one observer's registration on a space.
type Subscription struct {
	id    string
	space string
	ch    chan *requestlog.CapturedRequest
	hub   *hub

	once    sync.Once
	dropped atomic.Uint64
}

// ID returns a short identifier for logging.
func (s *Subscription) ID() string { return s.id }

// Space returns the observed space key.
func (s *Subscription) Space() string { return s.space }

// Events returns the delivery channel. It is closed by Close.
func (s *Subscription) Events() <-chan *requestlog.CapturedRequest { return s.ch }

// Dropped returns how many events were dropped for this subscription.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Close removes the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		// Closing under the hub lock guarantees Publish never sends on a closed channel.
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}
