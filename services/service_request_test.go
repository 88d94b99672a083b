package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/models"
)

func TestRequestServeCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.server(t, "Will", testRestaurant)
	alice := f.customer(t, "alice")
	combo := f.join(t, alice, "5").AddressTableCombo

	require.NoError(t, f.requests.Request(ctx, combo))
	table, err := f.tables.Get(ctx, combo)
	require.NoError(t, err)
	assert.True(t, table.RequestMade)

	err = f.requests.Request(ctx, combo)
	assert.ErrorIs(t, err, ErrAlreadyRequested)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, f.requests.Serve(ctx, combo))
	pending, err := f.requests.HasPending(ctx, combo)
	require.NoError(t, err)
	assert.False(t, pending)
	table, err = f.tables.Get(ctx, combo)
	require.NoError(t, err)
	assert.False(t, table.RequestMade)

	require.NoError(t, f.requests.Request(ctx, combo))
	pending, err = f.requests.HasPending(ctx, combo)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestServeWithoutRequestSucceeds(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.requests.Serve(context.Background(), models.ComboKey(testRestaurant, "nowhere")))
}

func TestRequestRequiresKey(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.requests.Request(context.Background(), ""), ErrValidation)
}

func TestConcurrentRequestsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	combo := models.ComboKey(testRestaurant, "8")

	var (
		wg       sync.WaitGroup
		won      atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := f.requests.Request(context.Background(), combo); {
			case err == nil:
				won.Add(1)
			case assert.ErrorIs(t, err, ErrAlreadyRequested):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, int32(7), rejected.Load())
}
