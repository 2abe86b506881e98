package requestlog

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/hookd/pkg/space"
)

func newTestStore(opts ...Option) *Store {
	return NewStore(space.NewRegistry(), opts...)
}

// ── Entry tests ──────────────────────────────────────────────────────────────

func TestQueryValue_JSON(t *testing.T) {
	rec := CapturedRequest{
		Query: map[string]QueryValue{
			"a": {"1"},
			"b": {"2", "3"},
		},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	query := raw["query"].(map[string]any)
	assert.Equal(t, "1", query["a"])
	assert.Equal(t, []any{"2", "3"}, query["b"])

	var back CapturedRequest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec.Query, back.Query)
}

func TestQueryValue_UnmarshalRejectsNumbers(t *testing.T) {
	var q QueryValue
	assert.Error(t, json.Unmarshal([]byte(`42`), &q))
}

func TestCapturedRequest_OmitsEmptyBody(t *testing.T) {
	data, err := json.Marshal(CapturedRequest{ID: "x", Method: "GET"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "bodyRaw")
	assert.NotContains(t, string(data), "contentType")
}

// ── Store tests ──────────────────────────────────────────────────────────────

func TestAppend_AssignsIdentity(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_123)
	store := newTestStore(WithClock(func() time.Time { return fixed }))

	rec := store.Append("demo", &CapturedRequest{Method: "POST", URL: "/orders"})

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "demo", rec.SpaceID)
	assert.Equal(t, int64(1_700_000_000_123), rec.CreatedAt)
	assert.Equal(t, 1, store.Count("demo"))
}

func TestAppend_EnsuresSpace(t *testing.T) {
	reg := space.NewRegistry()
	store := NewStore(reg)

	store.Append("fresh", &CapturedRequest{Method: "GET", URL: "/"})

	_, ok := reg.Get("fresh")
	assert.True(t, ok)
}

func TestAppend_CapKeepsNewest(t *testing.T) {
	store := newTestStore()

	var ids []string
	for i := 0; i < 501; i++ {
		rec := store.Append("s", &CapturedRequest{Method: "GET", URL: fmt.Sprintf("/r/%d", i)})
		ids = append(ids, rec.ID)
	}

	assert.Equal(t, 500, store.Count("s"))

	items := store.List("s", Filter{Limit: 1000})
	require.Len(t, items, 500)
	assert.Equal(t, ids[500], items[0].ID)
	assert.Equal(t, ids[1], items[499].ID)

	_, err := store.Get("s", ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppend_CustomCap(t *testing.T) {
	store := newTestStore(WithMaxEntries(3))
	for i := 0; i < 5; i++ {
		store.Append("s", &CapturedRequest{Method: "GET", URL: fmt.Sprintf("/%d", i)})
	}

	items := store.List("s", Filter{})
	require.Len(t, items, 3)
	assert.Equal(t, "/4", items[0].URL)
	assert.Equal(t, "/2", items[2].URL)
}

func TestAppend_PublishesOnce(t *testing.T) {
	var (
		mu        sync.Mutex
		published []*CapturedRequest
	)
	store := newTestStore(WithPublisher(PublisherFunc(func(space string, rec *CapturedRequest) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "demo", space)
		published = append(published, rec)
	})))

	rec := store.Append("demo", &CapturedRequest{Method: "GET", URL: "/"})

	require.Len(t, published, 1)
	assert.Same(t, rec, published[0])
}

func TestAppend_Concurrent(t *testing.T) {
	store := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				store.Append("hot", &CapturedRequest{Method: "POST", URL: fmt.Sprintf("/%d/%d", n, j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 500, store.Count("hot"))
	seen := make(map[string]bool)
	for _, rec := range store.List("hot", Filter{Limit: 500}) {
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestList_Empty(t *testing.T) {
	store := newTestStore()
	items := store.List("nothing", Filter{})
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestList_DefaultLimit(t *testing.T) {
	store := newTestStore()
	for i := 0; i < 150; i++ {
		store.Append("s", &CapturedRequest{Method: "GET", URL: "/"})
	}

	assert.Len(t, store.List("s", Filter{}), 100)
	assert.Len(t, store.List("s", Filter{Limit: -5}), 100)
	assert.Len(t, store.List("s", Filter{Limit: 10}), 10)
}

func TestList_Search(t *testing.T) {
	store := newTestStore()
	store.Append("s", &CapturedRequest{Method: "POST", URL: "/a", BodyRaw: `{"k":"NEEDLE"}`})
	store.Append("s", &CapturedRequest{Method: "GET", URL: "/b?q=needle"})
	store.Append("s", &CapturedRequest{Method: "GET", URL: "/c", BodyRaw: "hay"})

	items := store.List("s", Filter{Search: "  needle "})
	require.Len(t, items, 2)
	assert.Equal(t, "/b?q=needle", items[0].URL)
	assert.Equal(t, "/a", items[1].URL)
}

func TestList_SearchDoesNotSpanURLAndBody(t *testing.T) {
	store := newTestStore()
	store.Append("s", &CapturedRequest{Method: "POST", URL: "/ab", BodyRaw: "cd"})

	assert.Empty(t, store.List("s", Filter{Search: "abcd"}))
	assert.Len(t, store.List("s", Filter{Search: "ab\ncd"}), 1)
}

func TestList_MethodFilter(t *testing.T) {
	store := newTestStore()
	store.Append("s", &CapturedRequest{Method: "POST", URL: "/1"})
	store.Append("s", &CapturedRequest{Method: "GET", URL: "/2"})
	store.Append("s", &CapturedRequest{Method: "POST", URL: "/3"})

	post := store.List("s", Filter{Method: "POST"})
	require.Len(t, post, 2)
	assert.Equal(t, "/3", post[0].URL)

	assert.Len(t, store.List("s", Filter{Method: "ALL"}), 3)
	assert.Len(t, store.List("s", Filter{Method: ""}), 3)
	assert.Empty(t, store.List("s", Filter{Method: "DELETE"}))
	// methods match exactly
	assert.Empty(t, store.List("s", Filter{Method: "post"}))
}

func TestList_FilterThenLimit(t *testing.T) {
	store := newTestStore()
	for i := 0; i < 10; i++ {
		method := "GET"
		if i%2 == 0 {
			method = "POST"
		}
		store.Append("s", &CapturedRequest{Method: method, URL: fmt.Sprintf("/%d", i)})
	}

	items := store.List("s", Filter{Method: "POST", Limit: 2})
	require.Len(t, items, 2)
	assert.Equal(t, "/8", items[0].URL)
	assert.Equal(t, "/6", items[1].URL)
}

func TestGet(t *testing.T) {
	store := newTestStore()
	rec := store.Append("s", &CapturedRequest{Method: "GET", URL: "/"})

	got, err := store.Get("s", rec.ID)
	require.NoError(t, err)
	assert.Same(t, rec, got)

	_, err = store.Get("other", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClear(t *testing.T) {
	store := newTestStore()
	store.Append("s", &CapturedRequest{Method: "GET", URL: "/"})
	store.Append("s", &CapturedRequest{Method: "GET", URL: "/"})
	store.Append("keep", &CapturedRequest{Method: "GET", URL: "/"})

	assert.Equal(t, 2, store.Clear("s"))
	assert.Equal(t, 0, store.Count("s"))
	assert.Equal(t, 1, store.Count("keep"))

	rec := store.Append("s", &CapturedRequest{Method: "GET", URL: "/after"})
	items := store.List("s", Filter{})
	require.Len(t, items, 1)
	assert.Equal(t, rec.ID, items[0].ID)
}

func TestAppend_StampsInsideSpaceLock(t *testing.T) {
	base := time.UnixMilli(1700000000000)
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	// The first Append blocks inside the clock after reading its time.
	clock := func() time.Time {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
		}
		return base.Add(time.Duration(n) * time.Millisecond)
	}
	store := newTestStore(WithClock(clock))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		store.Append("s", &CapturedRequest{Method: "POST", URL: "/a"})
	}()
	<-entered
	go func() {
		defer wg.Done()
		store.Append("s", &CapturedRequest{Method: "POST", URL: "/b"})
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	items := store.List("s", Filter{})
	require.Len(t, items, 2)
	assert.Equal(t, "/b", items[0].URL)
	assert.Greater(t, items[0].CreatedAt, items[1].CreatedAt)
}
