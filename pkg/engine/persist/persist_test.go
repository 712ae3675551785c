package persist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/engine/persist"
	"github.com/rookery-chess/pinion/pkg/eval"
	"github.com/rookery-chess/pinion/pkg/search"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(0x1234), 4, eval.Score(37), eval.NegInf, eval.Inf)
	tt.Store(board.ZobristHash(0x5678), 6, eval.Score(-12), eval.Score(-50), eval.Score(50))

	store, err := persist.Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, tt))
	require.NoError(t, store.Close())

	reopened, err := persist.Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	restored := search.NewTranspositionTable()
	require.NoError(t, reopened.Load(ctx, restored))

	score, ok := restored.Lookup(board.ZobristHash(0x1234), 4, eval.NegInf, eval.Inf)
	require.True(t, ok)
	assert.Equal(t, eval.Score(37), score)

	score, ok = restored.Lookup(board.ZobristHash(0x5678), 6, eval.Score(-50), eval.Score(50))
	require.True(t, ok)
	assert.Equal(t, eval.Score(-12), score)
}
