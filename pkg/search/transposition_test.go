package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/eval"
	"github.com/rookery-chess/pinion/pkg/search"
)

func TestTranspositionLookupMiss(t *testing.T) {
	tt := search.NewTranspositionTable()
	_, ok := tt.Lookup(board.ZobristHash(1), 4, eval.NegInf, eval.Inf)
	assert.False(t, ok)
}

func TestTranspositionStoreAndLookupExactWindow(t *testing.T) {
	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(1), 4, eval.Score(10), eval.Score(-50), eval.Score(50))

	score, ok := tt.Lookup(board.ZobristHash(1), 4, eval.Score(-50), eval.Score(50))
	assert.True(t, ok)
	assert.Equal(t, eval.Score(10), score)
}

func TestTranspositionLookupRejectsNarrowerStoredWindow(t *testing.T) {
	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(1), 4, eval.Score(10), eval.Score(-20), eval.Score(20))

	// The caller's window [-50, 50] is not contained in the stored [-20, 20] window,
	// so the stored bound cannot be reused.
	_, ok := tt.Lookup(board.ZobristHash(1), 4, eval.Score(-50), eval.Score(50))
	assert.False(t, ok)
}

func TestTranspositionLookupAcceptsDeeperSlotForShallowerQuery(t *testing.T) {
	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(1), 8, eval.Score(30), eval.Score(-100), eval.Score(100))

	score, ok := tt.Lookup(board.ZobristHash(1), 3, eval.Score(-100), eval.Score(100))
	assert.True(t, ok)
	assert.Equal(t, eval.Score(30), score)
}

func TestTranspositionLookupRejectsShallowerSlotForDeeperQuery(t *testing.T) {
	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(1), 2, eval.Score(30), eval.Score(-100), eval.Score(100))

	_, ok := tt.Lookup(board.ZobristHash(1), 8, eval.Score(-100), eval.Score(100))
	assert.False(t, ok)
}

func TestTranspositionClearRemovesEntries(t *testing.T) {
	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(1), 4, eval.Score(10), eval.NegInf, eval.Inf)
	tt.Clear()

	_, ok := tt.Lookup(board.ZobristHash(1), 4, eval.NegInf, eval.Inf)
	assert.False(t, ok)
}

func TestTranspositionSnapshotRestoreRoundTrip(t *testing.T) {
	tt := search.NewTranspositionTable()
	tt.Store(board.ZobristHash(1), 4, eval.Score(10), eval.Score(-50), eval.Score(50))
	tt.Store(board.ZobristHash(2), 6, eval.Score(-5), eval.Score(-100), eval.Score(100))

	snap := tt.Snapshot()
	assert.Len(t, snap, 2)

	restored := search.NewTranspositionTable()
	restored.Restore(snap)

	score, ok := restored.Lookup(board.ZobristHash(1), 4, eval.Score(-50), eval.Score(50))
	assert.True(t, ok)
	assert.Equal(t, eval.Score(10), score)

	score, ok = restored.Lookup(board.ZobristHash(2), 6, eval.Score(-100), eval.Score(100))
	assert.True(t, ok)
	assert.Equal(t, eval.Score(-5), score)
}
