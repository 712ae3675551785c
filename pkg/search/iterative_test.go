package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
	"github.com/rookery-chess/pinion/pkg/eval"
	"github.com/rookery-chess/pinion/pkg/search"
)

func newContext(t *testing.T, record string) *search.Context {
	t.Helper()
	zt := board.NewZobristTable(0)
	pos, err := fen.Decode(zt, record)
	require.NoError(t, err)

	return &search.Context{
		Position:  pos,
		TT:        search.NewTranspositionTable(),
		EvalCache: make(map[board.ZobristHash]eval.Score),
		Active:    atomic.NewBool(true),
	}
}

func TestIterativeDeepenFindsMateInOne(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		expected string
	}{
		{"promotion to queen delivers mate", "7k/5Ppp/8/8/8/8/8/K7 w - - 0 1", "f7f8q"},
		{"queen delivers mate", "k7/7Q/1K6/8/8/8/8/8 w - - 0 1", "h7b7"},
	}

	for _, tt := range tests {
		ctx := newContext(t, tt.record)
		result := search.IterativeDeepen(ctx, 3, nil)

		require.True(t, result.HasMove, tt.name)
		require.NotEmpty(t, result.PV, tt.name)
		assert.Equal(t, tt.expected, result.PV[0].String(), tt.name)
		assert.GreaterOrEqual(t, int(result.Score), int(eval.MateValue)-10, "%v: expected a mate score, got %v", tt.name, result.Score)
	}
}

func TestIterativeDeepenNoLegalMoves(t *testing.T) {
	// Stalemate: Black to move, no legal moves, not in check.
	ctx := newContext(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	result := search.IterativeDeepen(ctx, 3, nil)

	assert.False(t, result.HasMove)
}

func TestIterativeDeepenStreamsOnePerDepth(t *testing.T) {
	ctx := newContext(t, fen.Initial)

	out := make(chan search.Result, 10)
	result := search.IterativeDeepen(ctx, 2, out)
	close(out)

	var count int
	for range out {
		count++
	}
	assert.Equal(t, result.Depth, count, "expected one streamed Result per completed depth")
}
