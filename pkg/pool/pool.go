// Package pool distributes repeated sampling and fixed-size jobs over a
// bounded number of goroutines. It is used to accelerate prime generation,
// where most attempts fail and many can run concurrently.
package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool runs searches and batch jobs over a fixed number of workers.
// The zero value is not usable; use NewPool.
type Pool struct {
	workers int
}

// NewPool creates a Pool with the given number of workers.
// count ≤ 0 selects runtime.GOMAXPROCS(0).
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: count}
}

// Search calls f repeatedly across all workers until count non-nil results
// have been produced, and returns them.
// f must be safe for concurrent use.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	results := make([]interface{}, count)
	remaining := int64(count)

	var g errgroup.Group
	for w := 0; w < p.workers; w++ {
		g.Go(func() error {
			for atomic.LoadInt64(&remaining) > 0 {
				res := f()
				if res == nil {
					continue
				}
				i := atomic.AddInt64(&remaining, -1)
				if i < 0 {
					return nil
				}
				results[i] = res
			}
			return nil
		})
	}
	// workers never return an error; Wait is for joining only
	_ = g.Wait()
	return results
}

// Parallelize evaluates f at each index in [0, count) across the workers,
// returning the results in order.
func (p *Pool) Parallelize(count int, f func(i int) interface{}) []interface{} {
	results := make([]interface{}, count)
	next := int64(-1)

	var g errgroup.Group
	for w := 0; w < p.workers; w++ {
		g.Go(func() error {
			for {
				i := atomic.AddInt64(&next, 1)
				if i >= int64(count) {
					return nil
				}
				results[i] = f(int(i))
			}
		})
	}
	_ = g.Wait()
	return results
}

// LockedReader wraps an io.Reader for concurrent use by the workers.
type LockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

// NewLockedReader wraps r so that concurrent Reads are serialized.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{r: r}
}

func (l *LockedReader) Read(buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(buf)
}
