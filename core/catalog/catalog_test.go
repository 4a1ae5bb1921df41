package catalog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/librarium/core/catalog"
	"github.com/dmitrymomot/librarium/core/gate"
)

func TestCatalog_New(t *testing.T) {
	t.Parallel()

	t.Run("successful creation", func(t *testing.T) {
		t.Parallel()

		c, err := catalog.New(5)
		require.NoError(t, err)

		books, err := c.Books(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, books)
	})

	t.Run("zero inventory is valid", func(t *testing.T) {
		t.Parallel()

		c, err := catalog.New(0)
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("negative inventory rejected", func(t *testing.T) {
		t.Parallel()

		c, err := catalog.New(-1)
		assert.ErrorIs(t, err, catalog.ErrNegativeInventory)
		assert.Nil(t, c)
	})

	t.Run("shared gate", func(t *testing.T) {
		t.Parallel()

		g := gate.New()
		c, err := catalog.New(1, catalog.WithGate(g))
		require.NoError(t, err)
		assert.Same(t, g, c.Gate())
	})
}

// One book, two checkouts: the first succeeds and empties the inventory, the
// second reports unavailable and the count stays at zero.
func TestCatalog_CheckoutDrainsToZero(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(1)
	require.NoError(t, err)

	ctx := context.Background()

	remaining, err := c.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = c.Checkout(ctx)
	assert.ErrorIs(t, err, catalog.ErrUnavailable)

	books, err := c.Books(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, books)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Checkouts)
	assert.Equal(t, int64(1), stats.Denials)
}

// The count must never go negative regardless of how many checkouts race.
func TestCatalog_InventoryNeverNegative(t *testing.T) {
	t.Parallel()

	const initial = 10
	const attempts = 40

	c, err := catalog.New(initial)
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			remaining, err := c.Checkout(ctx)
			if err == nil {
				assert.GreaterOrEqual(t, remaining, 0)
			} else {
				assert.ErrorIs(t, err, catalog.ErrUnavailable)
			}
		}()
	}
	wg.Wait()

	books, err := c.Books(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, books)

	stats := c.Stats()
	assert.Equal(t, int64(initial), stats.Checkouts)
	assert.Equal(t, int64(attempts-initial), stats.Denials)
}

func TestCatalog_ReadSeesStableCount(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(3)
	require.NoError(t, err)

	ctx := context.Background()
	err = c.Read(ctx, func(books int) {
		assert.Equal(t, 3, books)
		// A writer cannot slip in while the read section is open.
		assert.False(t, c.Gate().Stats().WriterActive)
	})
	require.NoError(t, err)
}

func TestCatalog_ReadReleasesGateOnPanic(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(1)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Panics(t, func() {
		_ = c.Read(ctx, func(int) { panic("reader fault") })
	})

	// The gate must be free again: a checkout goes straight through.
	remaining, err := c.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
