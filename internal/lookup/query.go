// Package lookup tracks asynchronous slug lookups as a three-state result:
// still pending, found, or definitively absent.
package lookup

import (
	"context"
	"sync"

	"sitecontent/internal/domain"
)

// Fetcher resolves a key to a lookup result.
type Fetcher func(ctx context.Context, key string) (domain.Lookup, error)

// Result is a snapshot of a query. Err is set only for infrastructure
// failures; absence is reported through Lookup.State.
type Result struct {
	Key    string
	Lookup domain.Lookup
	Err    error
}

func (r Result) Pending() bool {
	return r.Err == nil && r.Lookup.IsPending()
}

// Query is a single in-flight lookup.
type Query struct {
	key    string
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result Result
}

// Start runs fetch in the background. The query stops when ctx is done or
// Cancel is called.
func Start(ctx context.Context, key string, fetch Fetcher) *Query {
	qctx, cancel := context.WithCancel(ctx)
	q := &Query{
		key:    key,
		cancel: cancel,
		done:   make(chan struct{}),
		result: Result{Key: key, Lookup: domain.Pending()},
	}

	go func() {
		defer close(q.done)
		defer cancel()

		l, err := fetch(qctx, key)
		if err == nil && l.IsPending() {
			l = domain.Absent()
		}

		q.mu.Lock()
		q.result = Result{Key: key, Lookup: l, Err: err}
		q.mu.Unlock()
	}()

	return q
}

func (q *Query) Key() string {
	return q.key
}

// Result returns the current snapshot without blocking.
func (q *Query) Result() Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result
}

// Wait blocks until the query settles or ctx is done, in which case the
// pending snapshot is returned with ctx's error.
func (q *Query) Wait(ctx context.Context) Result {
	select {
	case <-q.done:
		return q.Result()
	case <-ctx.Done():
		r := q.Result()
		if r.Pending() {
			r.Err = ctx.Err()
		}
		return r
	}
}

func (q *Query) Done() <-chan struct{} {
	return q.done
}

func (q *Query) Cancel() {
	q.cancel()
}
