package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharded_SerializesSameKey(t *testing.T) {
	t.Parallel()

	l := NewSharded(8)
	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "E1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				seen := atomic.LoadInt32(&maxSeen)
				if n <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
}

func TestSharded_ContextCancellation(t *testing.T) {
	t.Parallel()

	l := NewSharded(1)
	unlock, err := l.Lock(context.Background(), "E1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "E2")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSharded_UnlockIsIdempotent(t *testing.T) {
	t.Parallel()

	l := NewSharded(0)
	assert.Len(t, l.shards, DefaultShards)

	unlock, err := l.Lock(context.Background(), "E1")
	require.NoError(t, err)
	unlock()
	unlock()

	again, err := l.Lock(context.Background(), "E1")
	require.NoError(t, err)
	again()
}
