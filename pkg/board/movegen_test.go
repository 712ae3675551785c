package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
)

func perft(pos *board.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var nodes int64
	for _, mi := range board.Legal(pos, board.All) {
		pos.Make(mi)
		nodes += perft(pos, depth-1)
		pos.Unmake(mi)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		record   string
		depth    int
		expected int64
	}{
		{fen.Initial, 1, 20},
		{fen.Initial, 4, 197281},
		{fen.Initial, 5, 4865609},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 4, 2103487},
	}

	for _, tt := range tests {
		zt := board.NewZobristTable(0)
		pos, err := fen.Decode(zt, tt.record)
		require.NoError(t, err)

		actual := perft(pos, tt.depth)
		assert.Equal(t, tt.expected, actual, "perft(%q, %v)", tt.record, tt.depth)
	}
}

func TestFindMove(t *testing.T) {
	zt := board.NewZobristTable(0)

	tests := []struct {
		record string
		move   string
		kind   board.MoveKind
		ok     bool
	}{
		{fen.Initial, "e2e4", board.MoveNormal, true},
		{fen.Initial, "g1f3", board.MoveNormal, true},
		{fen.Initial, "e2e5", board.MoveNormal, false},
		{"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2", "e4e5", board.MoveNormal, false},
		{"rnbqkbnr/ppp2ppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3", "e5d6", board.MoveEnPassant, true},
		{"8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8q", board.MovePromotion, true},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", board.MoveCastle, true},
	}

	for _, tt := range tests {
		pos, err := fen.Decode(zt, tt.record)
		require.NoError(t, err)

		from, to, promo, err := board.ParseLongAlgebraic(tt.move)
		require.NoError(t, err)

		mi, ok := board.FindMove(pos, from, to, promo)
		require.Equal(t, tt.ok, ok, "FindMove(%q, %v)", tt.record, tt.move)
		if ok {
			assert.Equal(t, tt.kind, mi.Move.Kind, "FindMove(%q, %v)", tt.record, tt.move)
		}
	}
}
