package capture

import (
	"log/slog"
	"time"

	"github.com/getmockd/hookd/pkg/eventbus"
	"github.com/getmockd/hookd/pkg/logging"
	"github.com/getmockd/hookd/pkg/ratelimit"
	"github.com/getmockd/hookd/pkg/requestlog"
	"github.com/getmockd/hookd/pkg/response"
	"github.com/getmockd/hookd/pkg/space"
)

// DefaultMaxBodyBytes is the largest request body accepted for capture (10MB).
const DefaultMaxBodyBytes = 10 << 20

// Config configures a Service. Zero values select the package defaults.
type Config struct {
	MaxEntriesPerSpace int
	RateCapacity       int
	RatePerMinute      int
	SubscriberBuffer   int
	MaxBodyBytes       int64
	Logger             *slog.Logger

	// Clock overrides time.Now for stores and the rate limiter.
	Clock func() time.Time
}

// Service owns all capture state for the lifetime of the process.
type Service struct {
	spaces    *space.Registry
	requests  *requestlog.Store
	events    *eventbus.Bus
	responses *response.Store
	limiter   *ratelimit.Limiter

	maxBody int64
	log     *slog.Logger
	sleep   func(time.Duration) <-chan time.Time
}

// New builds a Service and its stores.
func New(cfg Config) *Service {
	log := logging.OrNop(cfg.Logger)
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	spaces := space.NewRegistry(space.WithClock(clock))
	events := eventbus.New(spaces,
		eventbus.WithBufferSize(cfg.SubscriberBuffer),
		eventbus.WithLogger(log))

	return &Service{
		spaces: spaces,
		requests: requestlog.NewStore(spaces,
			requestlog.WithMaxEntries(cfg.MaxEntriesPerSpace),
			requestlog.WithPublisher(events),
			requestlog.WithClock(clock)),
		events:    events,
		responses: response.NewStore(spaces),
		limiter: ratelimit.New(
			ratelimit.WithCapacity(cfg.RateCapacity),
			ratelimit.WithRatePerMinute(cfg.RatePerMinute),
			ratelimit.WithClock(clock)),
		maxBody: maxBody,
		log:     log,
		sleep:   time.After,
	}
}

// Spaces returns the space registry.
func (s *Service) Spaces() *space.Registry { return s.spaces }

// Requests returns the request store.
func (s *Service) Requests() *requestlog.Store { return s.requests }

// Events returns the event bus.
func (s *Service) Events() *eventbus.Bus { return s.events }

// Responses returns the response configuration store.
func (s *Service) Responses() *response.Store { return s.responses }

// Limiter returns the capture rate limiter.
func (s *Service) Limiter() *ratelimit.Limiter { return s.limiter }
