package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitPending blocks until n callers hold or wait for key.
func waitPending(t *testing.T, s *Sequencer, key string, n int) {
	require.Eventually(t, func() bool { return s.pending(key) == n }, time.Second, time.Millisecond)
}

func TestSequencer_RunsInInitiationOrder(t *testing.T) {
	s := NewSequencer()
	ctx := context.Background()

	release, err := s.Acquire(ctx, "cart:u1")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Do(ctx, "cart:u1", func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}(i)
		waitPending(t, s, "cart:u1", i+1)
	}

	release()
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
	assert.Equal(t, 0, s.pending("cart:u1"))
}

func TestSequencer_KeysAreIndependent(t *testing.T) {
	s := NewSequencer()
	ctx := context.Background()

	release, err := s.Acquire(ctx, "cart:u1")
	require.NoError(t, err)
	defer release()

	done := make(chan struct{})
	go func() {
		_ = s.Do(ctx, "cart:u2", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unrelated key was blocked")
	}
}

func TestSequencer_CancelledWaiterNeverRuns(t *testing.T) {
	s := NewSequencer()

	release, err := s.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Do(ctx, "k", func() error {
			ran = true
			return nil
		})
	}()
	waitPending(t, s, "k", 2)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.False(t, ran)

	release()
	assert.Equal(t, 0, s.pending("k"))

	// the lane is usable again
	assert.NoError(t, s.Do(context.Background(), "k", func() error { return nil }))
}

func TestSequencer_ReleaseIsIdempotent(t *testing.T) {
	s := NewSequencer()

	release, err := s.Acquire(context.Background(), "k")
	require.NoError(t, err)
	release()
	release()

	assert.Equal(t, 0, s.pending("k"))
}
