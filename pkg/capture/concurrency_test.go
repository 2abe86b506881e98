package capture

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/hookd/pkg/requestlog"
)

func TestCapture_ConcurrentSendersKeepCap(t *testing.T) {
	svc := New(Config{MaxEntriesPerSpace: 50, SubscriberBuffer: 256})
	sub := svc.Events().Subscribe("load")
	defer sub.Close()

	const (
		numWorkers = 20
		perWorker  = 10
	)
	var created int64
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r := httptest.NewRequest(http.MethodPost, "/capture/load", strings.NewReader("x"))
				// one sender per worker keeps each under its bucket
				r.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", worker))
				w := httptest.NewRecorder()
				svc.Capture(w, r, "load")
				if w.Code == http.StatusCreated {
					atomic.AddInt64(&created, 1)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(numWorkers*perWorker), created)
	assert.Equal(t, 50, svc.Requests().Count("load"))

	// Events arrive in store order: the newest record was published last.
	var last string
	for len(sub.Events()) > 0 {
		rec := <-sub.Events()
		last = rec.ID
	}
	newest := svc.Requests().List("load", requestlog.Filter{Limit: 1})
	require.Len(t, newest, 1)
	assert.Zero(t, sub.Dropped())
	assert.Equal(t, newest[0].ID, last)
}

func BenchmarkCapture(b *testing.B) {
	svc := New(Config{RateCapacity: 1 << 30, RatePerMinute: 1 << 30})
	body := `{"type":"charge.succeeded","data":{"amount":1200}}`

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := httptest.NewRequest(http.MethodPost, "/capture/bench/hook?x=1", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		svc.Capture(w, r, "bench")
		if w.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}
