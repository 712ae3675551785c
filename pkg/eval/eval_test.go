package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
	"github.com/rookery-chess/pinion/pkg/eval"
)

func TestEvaluateInitialPositionIsZero(t *testing.T) {
	zt := board.NewZobristTable(0)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	assert.Equal(t, eval.Score(0), eval.Evaluate(pos), "symmetric starting position should score flat")
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	// White is up a queen.
	zt := board.NewZobristTable(0)
	pos, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)

	assert.Greater(t, int(eval.Evaluate(pos)), 0)
}

func TestEvaluateIsSignFlippedForBlackToMove(t *testing.T) {
	zt := board.NewZobristTable(0)
	white, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	black, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	require.NoError(t, err)

	assert.Equal(t, eval.Evaluate(white), -eval.Evaluate(black))
}

func TestBishopPairBonusOnlyAtExactlyTwo(t *testing.T) {
	zt := board.NewZobristTable(0)

	one, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	require.NoError(t, err)
	two, err := fen.Decode(zt, "4k3/8/8/8/8/8/1B5B/4K3 w - - 0 1")
	require.NoError(t, err)
	three, err := fen.Decode(zt, "4k3/8/8/8/8/B7/1B5B/4K3 w - - 0 1")
	require.NoError(t, err)

	oneBishop := eval.Evaluate(one)
	twoBishops := eval.Evaluate(two)
	threeBishops := eval.Evaluate(three)

	assert.Greater(t, int(twoBishops-oneBishop), int(eval.PieceValue(int(board.Bishop))), "two bishops should score more than one plus the flat bishop value (the pair bonus)")
	// The a3 bishop adds its material, its a3 PST entry (-10) and five quiet moves, takes
	// the b2 bishop's a3 move away (-1), and the side loses the exactly-two pair bonus.
	expected := int(eval.PieceValue(int(board.Bishop))-eval.BishopPairValue) - 10 + 5 - 1
	assert.Equal(t, expected, int(threeBishops-twoBishops), "a third bishop should drop the pair bonus, not add another")
}
