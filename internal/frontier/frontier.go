// Package frontier holds the visit queue and the worker pool that
// drains it.
package frontier

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// Processor handles one visit. It may enqueue follow-up visits through
// the frontier it was given.
type Processor interface {
	Process(ctx context.Context, v extractor.Visit)
}

// Memory is an in-process frontier with unique-key dedup. Visits may
// be enqueued while workers drain; the run ends when the queue is
// empty and no visit is in flight.
type Memory struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []extractor.Visit
	seen    map[string]struct{}
	pending int
	closed  bool
}

// NewMemory creates an empty frontier.
func NewMemory() *Memory {
	m := &Memory{seen: make(map[string]struct{})}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Enqueue admits a visit unless its unique key was already seen.
// Forefront visits go to the head of the queue.
func (m *Memory) Enqueue(_ context.Context, v extractor.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	key := v.UniqueKey()
	if _, dup := m.seen[key]; dup {
		return nil
	}
	m.seen[key] = struct{}{}
	if v.Forefront {
		m.queue = append([]extractor.Visit{v}, m.queue...)
	} else {
		m.queue = append(m.queue, v)
	}
	m.pending++
	m.cond.Broadcast()
	return nil
}

// next blocks until a visit is available or the frontier drains.
func (m *Memory) next() (extractor.Visit, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		if len(m.queue) > 0 {
			v := m.queue[0]
			m.queue = m.queue[1:]
			return v, true
		}
		if m.pending == 0 || m.closed {
			return extractor.Visit{}, false
		}
		m.cond.Wait()
	}
}

// done marks one visit fully processed, follow-up enqueues included.
func (m *Memory) done() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending--
	if m.pending == 0 {
		m.cond.Broadcast()
	}
}

// close wakes all blocked workers; used on context cancellation.
func (m *Memory) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
}

// Run drains the frontier with a pool of workers. It returns when
// every enqueued visit has been processed or the context is canceled.
func (m *Memory) Run(ctx context.Context, workers int, p Processor) error {
	if workers < 1 {
		workers = 1
	}

	stop := context.AfterFunc(ctx, m.close)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				v, ok := m.next()
				if !ok {
					return nil
				}
				if err := ctx.Err(); err != nil {
					m.done()
					return err
				}
				p.Process(ctx, v)
				m.done()
			}
		})
	}
	return g.Wait()
}
