// Package server exposes the capture service over HTTP.
//
// Routes:
//
//	ANY    /capture/{space}[/*]          capture a request
//	ANY    /spaces/{space}/inbox[/*]     capture alias
//	GET    /spaces                       list spaces
//	POST   /spaces                       create a space with a generated key
//	GET    /spaces/{space}/requests      list captured requests
//	DELETE /spaces/{space}/requests      clear captured requests
//	GET    /spaces/{space}/requests/{id} fetch one captured request
//	GET    /spaces/{space}/config        read the response configuration
//	PUT    /spaces/{space}/config        replace the response configuration
//	GET    /spaces/{space}/events        Server-Sent Events observer
//	GET    /spaces/{space}/ws            WebSocket observer
//	GET    /healthz                      liveness
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/getmockd/hookd/pkg/capture"
	"github.com/getmockd/hookd/pkg/eventbus"
	"github.com/getmockd/hookd/pkg/logging"
)

// Options configures a Server.
type Options struct {
	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string

	// HeartbeatInterval is the keep-alive period for observer streams.
	HeartbeatInterval time.Duration

	// Logger receives access and operational logs.
	Logger *slog.Logger
}

// Server is the HTTP front end of a capture.Service.
type Server struct {
	svc       *capture.Service
	log       *slog.Logger
	heartbeat time.Duration
	router    chi.Router

	streamsDone chan struct{}
	closeOnce   sync.Once
}

// New builds the router for svc.
func New(svc *capture.Service, opts Options) *Server {
	s := &Server{
		svc:         svc,
		log:         logging.OrNop(opts.Logger),
		heartbeat:   opts.HeartbeatInterval,
		streamsDone: make(chan struct{}),
	}
	if s.heartbeat <= 0 {
		s.heartbeat = eventbus.DefaultHeartbeatInterval
	}
	s.setupRouter(opts)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Service returns the capture service behind the server.
func (s *Server) Service() *capture.Service {
	return s.svc
}

func (s *Server) setupRouter(opts Options) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.HandleFunc("/capture/{space}", s.handleCapture)
	r.HandleFunc("/capture/{space}/*", s.handleCapture)

	r.Route("/spaces", func(r chi.Router) {
		r.Get("/", s.handleListSpaces)
		r.Post("/", s.handleCreateSpace)

		r.Route("/{space}", func(r chi.Router) {
			r.HandleFunc("/inbox", s.handleCapture)
			r.HandleFunc("/inbox/*", s.handleCapture)

			r.Get("/requests", s.handleListRequests)
			r.Delete("/requests", s.handleClearRequests)
			r.Get("/requests/{id}", s.handleGetRequest)

			r.Get("/config", s.handleGetConfig)
			r.Put("/config", s.handlePutConfig)

			r.Get("/events", s.handleEvents)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	s.router = r
}

// CloseStreams ends every open observer stream. It is safe to call more than once.
func (s *Server) CloseStreams() {
	s.closeOnce.Do(func() {
		close(s.streamsDone)
	})
}

// HTTPServer returns an http.Server for addr serving this router.
// WriteTimeout applies to ordinary responses; observer streams clear it.
// Shutting the returned server down also closes observer streams, which
// would otherwise never become idle.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	srv.RegisterOnShutdown(s.CloseStreams)
	return srv
}

// Serve runs srv on ln until ctx is canceled, then shuts it down gracefully
// within shutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
