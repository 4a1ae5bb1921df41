package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/librarium/core/queue"
)

func TestQueue_New(t *testing.T) {
	t.Parallel()

	t.Run("successful creation", func(t *testing.T) {
		t.Parallel()

		q, err := queue.New(4)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, 4, q.Capacity())
		assert.Equal(t, 0, q.Len())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		t.Parallel()

		q, err := queue.New(0)
		assert.ErrorIs(t, err, queue.ErrInvalidCapacity)
		assert.Nil(t, q)

		q, err = queue.New(-1)
		assert.ErrorIs(t, err, queue.ErrInvalidCapacity)
		assert.Nil(t, q)
	})
}

func TestQueue_FIFOOrder(t *testing.T) {
	t.Parallel()

	q, err := queue.New(10)
	require.NoError(t, err)

	ctx := context.Background()
	var ids []int
	for i := 1; i <= 10; i++ {
		require.NoError(t, q.Enqueue(ctx, queue.NewRequest(i), time.Second))
		ids = append(ids, i)
	}

	for _, want := range ids {
		req, err := q.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, req.BorrowerID)
		q.ReleaseSlot()
	}
}

// With capacity 2 and both slots reserved, a third producer with a zero
// timeout must be rejected immediately.
func TestQueue_FullQueueRejectsImmediately(t *testing.T) {
	t.Parallel()

	q, err := queue.New(2)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, queue.NewRequest(1), 0))
	require.NoError(t, q.Enqueue(ctx, queue.NewRequest(2), 0))

	start := time.Now()
	err = q.Enqueue(ctx, queue.NewRequest(3), 0)
	assert.ErrorIs(t, err, queue.ErrQueueFull)
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, int64(1), q.Stats().Rejected)
}

func TestQueue_EnqueueTimesOutWhenFull(t *testing.T) {
	t.Parallel()

	q, err := queue.New(1)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, queue.NewRequest(1), 0))

	start := time.Now()
	err = q.Enqueue(ctx, queue.NewRequest(2), 100*time.Millisecond)
	assert.ErrorIs(t, err, queue.ErrQueueFull)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

// A blocked producer must get through once the consumer releases its slot,
// not merely once the item is dequeued.
func TestQueue_ReleaseSlotUnblocksProducer(t *testing.T) {
	t.Parallel()

	q, err := queue.New(1)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, queue.NewRequest(1), 0))

	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, queue.NewRequest(2), 2*time.Second)
	}()

	// Dequeue alone does not free capacity; the producer stays blocked.
	req, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, req.BorrowerID)

	select {
	case err := <-done:
		t.Fatalf("enqueue got through before slot release: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	q.ReleaseSlot()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("enqueue still blocked after slot release")
	}
}

// An idle dequeue must come back within roughly its timeout, never hang.
func TestQueue_DequeueTimesOutWhenEmpty(t *testing.T) {
	t.Parallel()

	q, err := queue.New(2)
	require.NoError(t, err)

	start := time.Now()
	req, err := q.Dequeue(context.Background(), 200*time.Millisecond)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, queue.ErrNoRequest)
	assert.Nil(t, req)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestQueue_DequeueHonorsContext(t *testing.T) {
	t.Parallel()

	q, err := queue.New(2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	req, err := q.Dequeue(ctx, 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, req)
}

// Every successful enqueue must be observable by exactly one dequeue, for
// any interleaving of concurrent producers.
func TestQueue_NoLostWakes(t *testing.T) {
	t.Parallel()

	const producers = 8
	const perProducer = 20

	q, err := queue.New(producers * perProducer)
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = q.Enqueue(ctx, queue.NewRequest(p*perProducer+i), time.Second)
			}
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < producers*perProducer; i++ {
		req, err := q.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		assert.False(t, seen[req.BorrowerID], "request observed twice")
		seen[req.BorrowerID] = true
		q.ReleaseSlot()
	}
	assert.Len(t, seen, producers*perProducer)

	// Nothing stranded.
	req, err := q.Dequeue(ctx, 0)
	assert.ErrorIs(t, err, queue.ErrNoRequest)
	assert.Nil(t, req)
}

func TestQueue_SlotAccounting(t *testing.T) {
	t.Parallel()

	q, err := queue.New(3)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(ctx, queue.NewRequest(i), 0))
	}

	stats := q.Stats()
	assert.Equal(t, 3, stats.Depth)
	assert.Equal(t, 3, stats.SlotsInUse)

	_, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)

	// Dequeued but not released: still counted against capacity.
	stats = q.Stats()
	assert.Equal(t, 2, stats.Depth)
	assert.Equal(t, 3, stats.SlotsInUse)

	q.ReleaseSlot()
	stats = q.Stats()
	assert.Equal(t, 2, stats.SlotsInUse)
}

func TestQueue_ReleaseSlotPanicsWithoutReservation(t *testing.T) {
	t.Parallel()

	q, err := queue.New(1)
	require.NoError(t, err)

	assert.Panics(t, func() { q.ReleaseSlot() })
}

func TestQueue_Healthcheck(t *testing.T) {
	t.Parallel()

	q, err := queue.New(2)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.Healthcheck(ctx))

	require.NoError(t, q.Enqueue(ctx, queue.NewRequest(1), 0))
	require.NoError(t, q.Enqueue(ctx, queue.NewRequest(2), 0))

	err = q.Healthcheck(ctx)
	require.ErrorIs(t, err, queue.ErrHealthcheckFailed)
	require.ErrorIs(t, err, queue.ErrQueueSaturated)

	_, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	q.ReleaseSlot()

	require.NoError(t, q.Healthcheck(ctx))
}
