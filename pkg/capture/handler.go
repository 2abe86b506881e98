package capture

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/getmockd/hookd/pkg/httputil"
	"github.com/getmockd/hookd/pkg/ratelimit"
	"github.com/getmockd/hookd/pkg/requestlog"
	"github.com/getmockd/hookd/pkg/response"
	"github.com/getmockd/hookd/pkg/template"
)

// Result is the body of a capture answered without a configured response.
type Result struct {
	ID string `json:"id"`
}

// Capture runs the capture pipeline for one inbound call to spaceKey.
func (s *Service) Capture(w http.ResponseWriter, r *http.Request, spaceKey string) {
	ip := ratelimit.ClientIP(r)

	decision := s.limiter.Check(ratelimit.Key(spaceKey, ip))
	if !decision.Allowed {
		s.log.Debug("capture rate limited", "space", spaceKey, "ip", ip)
		ratelimit.SetHeaders(w, decision)
		httputil.WriteTooManyRequests(w)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.log.Warn("request body too large", "space", spaceKey, "limit", s.maxBody)
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, httputil.MsgBodyTooLarge)
			return
		}
		// Record what arrived; a truncated upload is still worth inspecting.
		s.log.Debug("failed to read request body", "space", spaceKey, "error", err)
	}

	rec := s.requests.Append(spaceKey, newRecord(r, ip, body))
	s.log.Debug("request captured", "space", spaceKey, "id", rec.ID, "method", rec.Method)

	cfg, ok := s.responses.Get(spaceKey)
	if !ok {
		httputil.WriteCreated(w, Result{ID: rec.ID})
		return
	}
	s.respond(w, r, rec, cfg.Status, cfg.ResponseHeaders(), cfg.Body, cfg.DelayMs)
}

func (s *Service) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	return io.ReadAll(r.Body)
}

// respond writes a configured response after its delay. If the client goes
// away during the delay nothing is written.
func (s *Service) respond(w http.ResponseWriter, r *http.Request, rec *requestlog.CapturedRequest,
	status int, headers map[string]string, bodyTemplate string, delayMs int) {
	body := template.Render(bodyTemplate, template.VarsFrom(rec))

	if delayMs > 0 {
		delayMs = min(delayMs, response.MaxDelayMs)
		select {
		case <-s.sleep(time.Duration(delayMs) * time.Millisecond):
		case <-r.Context().Done():
			s.log.Debug("client left during response delay", "space", rec.SpaceID, "id", rec.ID)
			return
		}
	}

	h := w.Header()
	for k, v := range headers {
		h.Set(k, v)
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, body)
	}
}
