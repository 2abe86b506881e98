package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/getmockd/hookd/pkg/httputil"
	"github.com/getmockd/hookd/pkg/requestlog"
	"github.com/getmockd/hookd/pkg/response"
	"github.com/getmockd/hookd/pkg/space"
)

// maxConfigBodySize bounds config writes.
const maxConfigBodySize = 1 << 20

// ItemsResponse wraps list results.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// ClearResponse reports how many records were dropped.
type ClearResponse struct {
	Cleared int `json:"cleared"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Spaces int    `json:"spaces"`
}

// CreateSpaceRequest is the optional body of POST /spaces.
type CreateSpaceRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, HealthResponse{Status: "ok", Spaces: s.svc.Spaces().Len()})
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	s.svc.Capture(w, r, chi.URLParam(r, "space"))
}

func (s *Server) handleListSpaces(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, ItemsResponse[space.Space]{Items: s.svc.Spaces().List()})
}

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var req CreateSpaceRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfigBodySize)).Decode(&req); err != nil {
			httputil.WriteBadJSON(w)
			return
		}
	}
	created := s.svc.Spaces().Create(req.Name)
	s.log.Info("space created", "space", created.ID, "name", created.Name)
	httputil.WriteCreated(w, created)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := requestlog.Filter{
		Limit:  parseLimit(q.Get("limit")),
		Search: q.Get("search"),
		Method: q.Get("method"),
	}
	items := s.svc.Requests().List(chi.URLParam(r, "space"), filter)
	httputil.WriteOK(w, ItemsResponse[*requestlog.CapturedRequest]{Items: items})
}

func (s *Server) handleClearRequests(w http.ResponseWriter, r *http.Request) {
	spaceKey := chi.URLParam(r, "space")
	n := s.svc.Requests().Clear(spaceKey)
	s.log.Info("space history cleared", "space", spaceKey, "count", n)
	httputil.WriteOK(w, ClearResponse{Cleared: n})
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Requests().Get(chi.URLParam(r, "space"), chi.URLParam(r, "id"))
	if errors.Is(err, requestlog.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	httputil.WriteOK(w, rec)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, s.svc.Responses().GetOrDefault(chi.URLParam(r, "space")))
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	spaceKey := chi.URLParam(r, "space")

	p, err := response.Decode(http.MaxBytesReader(w, r.Body, maxConfigBodySize))
	if err != nil {
		s.log.Debug("rejected config write", "space", spaceKey, "error", err)
		httputil.WriteBadJSON(w)
		return
	}

	cfg := response.Normalize(p)
	s.svc.Responses().Set(spaceKey, cfg)
	s.log.Info("response config updated", "space", spaceKey, "status", cfg.Status, "delayMs", cfg.DelayMs)
	httputil.WriteOK(w, cfg)
}

// parseLimit returns the limit query value, or 0 (store default) when it is
// missing or not a positive integer.
func parseLimit(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
