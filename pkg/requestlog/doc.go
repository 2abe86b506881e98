// Package requestlog holds the captured-request history of every space.
//
// Each space keeps a bounded, most-recent-first list of CapturedRequest
// records. Appending is the only write path: it assigns the record's ID and
// timestamp, inserts it at the head, evicts the oldest record once the
// per-space cap is reached, and hands the record to the configured Publisher
// so live observers see it.
//
// # Usage
//
//	store := requestlog.NewStore(registry, requestlog.WithPublisher(bus))
//	rec := store.Append("demo", &requestlog.CapturedRequest{Method: "POST", URL: "/x"})
//	items := store.List("demo", requestlog.Filter{Search: "needle"})
//
// Records are immutable once appended. List and Get return shared pointers;
// callers must not modify them.
package requestlog
