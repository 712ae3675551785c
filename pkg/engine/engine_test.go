package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookery-chess/pinion/pkg/board/fen"
	"github.com/rookery-chess/pinion/pkg/engine"
	"github.com/rookery-chess/pinion/pkg/search"
	"github.com/rookery-chess/pinion/pkg/search/searchctl"
)

func TestEngineResetAndMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "nobody")

	assert.Equal(t, fen.Initial, e.FEN())

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.NotEqual(t, fen.Initial, e.FEN())

	require.NoError(t, e.Reset(ctx, fen.Initial))
	assert.Equal(t, fen.Initial, e.FEN())

	assert.Error(t, e.Move(ctx, "e2e5"), "e2e5 is not a legal move from the starting position")
}

func TestEngineGoCompletesAndReportsBestMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "nobody", engine.WithDepthLimit(3))

	out, err := e.Go(ctx, searchctl.GoOptions{HasDepth: true, Depth: 3})
	require.NoError(t, err)

	var last search.Result
	for result := range out {
		last = result
	}
	assert.True(t, last.HasMove)
	assert.NotEmpty(t, last.PV)
}

func TestEngineRejectsConcurrentSearches(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "nobody")

	_, err := e.Go(ctx, searchctl.GoOptions{Infinite: true})
	require.NoError(t, err)
	defer e.Stop()

	_, err = e.Go(ctx, searchctl.GoOptions{HasDepth: true, Depth: 1})
	assert.Error(t, err)
}

func TestEngineStopHaltsAnInfiniteSearch(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "nobody")

	_, err := e.Go(ctx, searchctl.GoOptions{Infinite: true})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	result, err := e.Stop()
	require.NoError(t, err)
	assert.True(t, result.HasMove)
	assert.False(t, e.Searching())
}
