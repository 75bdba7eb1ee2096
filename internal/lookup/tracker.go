package lookup

import (
	"context"
	"sync"
)

// Tracker keeps at most one outstanding query per subscription. Requesting a
// new key cancels the previous query; its result is discarded.
type Tracker struct {
	fetch Fetcher

	mu      sync.Mutex
	current *Query
}

func NewTracker(fetch Fetcher) *Tracker {
	return &Tracker{fetch: fetch}
}

// Request supersedes any outstanding query and starts one for key.
func (t *Tracker) Request(ctx context.Context, key string) *Query {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
	}
	t.current = Start(ctx, key, t.fetch)
	return t.current
}

// Current returns the result of the latest query. Results of superseded
// queries are never returned. Without any request the result is pending.
func (t *Tracker) Current() Result {
	t.mu.Lock()
	q := t.current
	t.mu.Unlock()

	if q == nil {
		return Result{}
	}
	return q.Result()
}

// Close cancels the outstanding query and waits for it to exit.
func (t *Tracker) Close() {
	t.mu.Lock()
	q := t.current
	t.current = nil
	t.mu.Unlock()

	if q != nil {
		q.Cancel()
		<-q.Done()
	}
}
