package srcom_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

var errBoom = errors.New("boom")

func TestDeferred_LazyAndMemoized(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	d := srcom.Defer(func(context.Context) (string, error) {
		calls.Add(1)

		return "value", nil
	})

	assert.False(t, d.IsEvaluated())
	assert.Equal(t, int32(0), calls.Load())

	for range 3 {
		value, err := d.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	}

	assert.True(t, d.IsEvaluated())
	assert.Equal(t, int32(1), calls.Load())
}

func TestDeferred_ConcurrentCallersShareEvaluation(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	release := make(chan struct{})
	d := srcom.Defer(func(context.Context) (int, error) {
		calls.Add(1)
		<-release

		return 42, nil
	})

	const callers = 8

	var wg sync.WaitGroup

	results := make([]int, callers)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			value, err := d.Get(context.Background())
			assert.NoError(t, err)

			results[i] = value
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	for _, value := range results {
		assert.Equal(t, 42, value)
	}
}

func TestDeferred_ErrorIsFinal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	d := srcom.Defer(func(context.Context) (string, error) {
		if calls.Add(1) > 1 {
			return "recovered", nil
		}

		return "", errBoom
	})

	_, err := d.Get(context.Background())
	require.ErrorIs(t, err, errBoom)

	_, err = d.Get(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, d.IsEvaluated())
}

func TestDeferred_ResolvedAndAbsent(t *testing.T) {
	t.Parallel()

	resolved := srcom.Resolved("ready")
	assert.True(t, resolved.IsEvaluated())

	value, err := resolved.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", value)

	absent := srcom.Absent[*srcom.Game]()
	assert.True(t, absent.IsEvaluated())

	game, err := absent.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, game)
}

func TestDeferred_NilReceiver(t *testing.T) {
	t.Parallel()

	var d *srcom.Deferred[int]

	assert.True(t, d.IsEvaluated())

	value, err := d.Get(context.Background())
	require.NoError(t, err)
	assert.Zero(t, value)
}

func TestDeferred_UsesFirstCallersContext(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}

	d := srcom.Defer(func(ctx context.Context) (string, error) {
		value, _ := ctx.Value(ctxKey{}).(string)

		return value, nil
	})

	first, err := d.Get(context.WithValue(context.Background(), ctxKey{}, "first"))
	require.NoError(t, err)

	second, err := d.Get(context.WithValue(context.Background(), ctxKey{}, "second"))
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "first", second)
}
