package eval

import "github.com/rookery-chess/pinion/pkg/board"

// Evaluate returns the static score of pos from White's perspective, negated for Black
// to move so the search can treat it as a negamax value. It folds in material (with a
// flat bishop-pair bonus at exactly two bishops), piece-square tables, and a mobility
// proxy over pseudo-legal moves. Callers are expected to memoize by Zobrist hash; this
// function does no caching of its own.
func Evaluate(pos *board.Position) Score {
	var result Score

	for _, c := range [2]board.Color{board.White, board.Black} {
		unit := Score(c.Unit())
		for p := board.ZeroPiece; p < board.NumPieces; p++ {
			n := Score(pos.PP.Pieces(c, p).PopCount())
			result += unit * n * PieceValue(int(p))
			if p == board.Bishop && n == 2 {
				result += unit * BishopPairValue
			}
		}
	}

	result += mobilityScore(pos)
	result += pstScore(pos)

	if pos.Side == board.Black {
		result = -result
	}
	return result
}

// mobilityScore is White-relative: Score(side.Unit()) folds the side-to-move-relative
// own/opponent totals back into White's frame so it can be summed alongside material
// and PST before the single negate-for-Black at the end of Evaluate.
func mobilityScore(pos *board.Position) Score {
	own := mobilityFor(pos, pos.Side, 1)
	opp := mobilityFor(pos, pos.Side.Opponent(), 2)
	return Score(pos.Side.Unit()) * (own - opp)
}

// mobilityFor sums SilentMoveValue for quiet pseudo-legal moves and
// (captured_piece+ownWeight)*CaptureValue for captures. ownWeight is 1 for the moving
// side's own moves and 2 for the opponent's, an asymmetry carried over unchanged.
func mobilityFor(pos *board.Position, side board.Color, ownWeight int) Score {
	work := *pos
	work.Side = side

	var total Score
	for _, mi := range board.PseudoLegal(&work, board.All) {
		if mi.Capture != board.NoPiece {
			total += Score(int(mi.Capture)+ownWeight) * CaptureValue
		} else {
			total += SilentMoveValue
		}
	}
	return total
}

func pstScore(pos *board.Position) Score {
	endgame := isEndgame(pos)

	var result Score
	add := func(c board.Color, p board.Piece, table *[64]int) {
		unit := Score(c.Unit())
		bb := pos.PP.Pieces(c, p)
		for bb != 0 {
			var sq board.Square
			sq, bb = bb.PopLSB()
			result += unit * Score(table[sq])
		}
	}

	add(board.White, board.Pawn, &whitePawnPST)
	add(board.Black, board.Pawn, &blackPawnPST)
	add(board.White, board.Knight, &whiteKnightPST)
	add(board.Black, board.Knight, &blackKnightPST)
	add(board.White, board.Bishop, &whiteBishopPST)
	add(board.Black, board.Bishop, &blackBishopPST)
	add(board.White, board.Rook, &whiteRookPST)
	add(board.Black, board.Rook, &blackRookPST)
	add(board.White, board.Queen, &whiteQueenPST)
	add(board.Black, board.Queen, &blackQueenPST)

	if endgame {
		add(board.White, board.King, &whiteKingEndPST)
		add(board.Black, board.King, &blackKingEndPST)
	} else {
		add(board.White, board.King, &whiteKingBeginPST)
		add(board.Black, board.King, &blackKingBeginPST)
	}
	return result
}

// isEndgame gates the king PST choice: no queens on the board, and at least 40
// halfmoves played. Retained verbatim even though the halfmove gate alone is a coarse
// proxy for game phase.
func isEndgame(pos *board.Position) bool {
	return pos.PP.Pieces(board.White, board.Queen) == 0 &&
		pos.PP.Pieces(board.Black, board.Queen) == 0 &&
		pos.Halfmove >= 40
}
