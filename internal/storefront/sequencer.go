package storefront

import (
	"context"
	"sync"
)

// Sequencer runs mutations of one resource strictly in the order they were
// initiated. Each resource key has a FIFO lane; a caller whose context ends
// while queued leaves the lane without running. Lanes live in this process
// only. Replicas sharing the same Redis or SQLite store are not serialized
// against each other.
type Sequencer struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	waiters []chan struct{}
}

func NewSequencer() *Sequencer {
	return &Sequencer{lanes: make(map[string]*lane)}
}

// Acquire blocks until every earlier caller for key has released. The
// returned release func must be called exactly once.
func (s *Sequencer) Acquire(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	l, busy := s.lanes[key]
	if !busy {
		s.lanes[key] = &lane{}
		s.mu.Unlock()
		return s.releaser(key), nil
	}
	turn := make(chan struct{})
	l.waiters = append(l.waiters, turn)
	s.mu.Unlock()

	select {
	case <-turn:
		return s.releaser(key), nil
	case <-ctx.Done():
		s.mu.Lock()
		for i, w := range l.waiters {
			if w == turn {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				s.mu.Unlock()
				return nil, ctx.Err()
			}
		}
		s.mu.Unlock()
		// the lane was handed to us while we gave up; pass it on
		s.release(key)
		return nil, ctx.Err()
	}
}

// Do runs fn inside key's lane.
func (s *Sequencer) Do(ctx context.Context, key string, fn func() error) error {
	release, err := s.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (s *Sequencer) releaser(key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { s.release(key) })
	}
}

func (s *Sequencer) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lanes[key]
	if len(l.waiters) == 0 {
		delete(s.lanes, key)
		return
	}
	next := l.waiters[0]
	l.waiters = l.waiters[1:]
	close(next)
}

func (s *Sequencer) pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lanes[key]; ok {
		return len(l.waiters) + 1
	}
	return 0
}
