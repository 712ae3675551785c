package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
)

// walk recursively makes and unmakes every legal move to the given depth, checking
// after every Make that the incremental Zobrist hash matches one computed from scratch,
// and after every Unmake that the position is bit-for-bit restored.
func walk(t *testing.T, pos *board.Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}

	before := *pos
	beforeState := pos.State
	beforeHash := pos.Zobrist

	for _, mi := range board.Legal(pos, board.All) {
		pos.Make(mi)

		fromScratch := pos.ZT.Hash(&pos.PP, pos.Side, pos.State)
		assert.Equal(t, fromScratch, pos.Zobrist.Hash, "incremental hash mismatch after %v", mi)

		walk(t, pos, depth-1)

		pos.Unmake(mi)
		assert.Equal(t, before.PP, pos.PP, "piece position not restored after unmaking %v", mi)
		assert.Equal(t, beforeState, pos.State, "board state not restored after unmaking %v", mi)
		assert.Equal(t, beforeHash, pos.Zobrist, "zobrist chain not restored after unmaking %v", mi)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	records := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, record := range records {
		zt := board.NewZobristTable(0)
		pos, err := fen.Decode(zt, record)
		require.NoError(t, err)

		walk(t, pos, 3)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	zt := board.NewZobristTable(0)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	clone := pos.Clone()

	moves := board.Legal(clone, board.All)
	require.NotEmpty(t, moves)
	clone.Make(moves[0])

	assert.NotEqual(t, pos.PP, clone.PP, "mutating the clone should not affect the original")
	assert.Equal(t, fen.Initial, fen.Encode(pos), "original position should be unaffected by the clone's move")
}

func TestFENRoundTrip(t *testing.T) {
	records := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 3 17",
	}

	for _, record := range records {
		zt := board.NewZobristTable(0)
		pos, err := fen.Decode(zt, record)
		require.NoError(t, err)

		assert.Equal(t, record, fen.Encode(pos))
	}
}

func TestIsDrawByFiftyMoveRule(t *testing.T) {
	zt := board.NewZobristTable(0)
	pos, err := fen.Decode(zt, "8/8/8/4k3/8/4K3/8/8 w - - 50 60")
	require.NoError(t, err)
	assert.False(t, pos.IsDraw())

	moves := board.Legal(pos, board.All)
	require.NotEmpty(t, moves)
	pos.Make(moves[0])
	assert.True(t, pos.IsDraw(), "halfmove clock should have crossed the fifty-move threshold")
}
