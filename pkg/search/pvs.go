package search

import (
	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/eval"
)

// alphaBeta runs a fail-hard principal-variation search rooted at ctx.Position, which is
// mutated via make/unmake and restored to its original state on return. ply counts
// plies from the root of the current iterative-deepening pass, used both for mate
// scoring and to index ctx.PV.
func alphaBeta(ctx *Context, alpha, beta eval.Score, depthLeft, ply int) eval.Score {
	if ctx.ShouldStop() {
		return alpha
	}
	if depthLeft <= 0 {
		return quiesce(ctx, alpha, beta)
	}

	origAlpha, origBeta := alpha, beta
	hash := ctx.Position.Zobrist.Hash
	if s, ok := ctx.TT.Lookup(hash, depthLeft, alpha, beta); ok {
		return s
	}

	moves := board.Ordered(ctx.Position, board.All)
	if len(moves) == 0 {
		var score eval.Score
		if board.InCheck(ctx.Position) {
			score = -(eval.MateValue - eval.Score(ply))
		}
		ctx.TT.Store(hash, depthLeft, score, origAlpha, origBeta)
		return score
	}

	first := true
	for _, mi := range moves {
		ctx.Position.Make(mi)
		ctx.Nodes++

		var score eval.Score
		if first {
			score = -alphaBeta(ctx, -beta, -alpha, depthLeft-1, ply+1)
			first = false
		} else {
			score = -alphaBeta(ctx, -alpha-1, -alpha, depthLeft-1, ply+1)
			if score > alpha && score < beta {
				score = -alphaBeta(ctx, -beta, -alpha, depthLeft-1, ply+1)
			}
		}
		ctx.Position.Unmake(mi)

		if ctx.ShouldStop() {
			return alpha
		}

		if score >= beta {
			ctx.TT.Store(hash, depthLeft, beta, origAlpha, origBeta)
			return beta
		}
		if score > alpha {
			alpha = score
			if ply < pvLength {
				ctx.PV[ply] = mi.Move
			}
		}
	}

	ctx.TT.Store(hash, depthLeft, alpha, origAlpha, origBeta)
	return alpha
}

// quiesce extends the search along capture sequences only, with a stand-pat cutoff, to
// avoid the horizon effect at the leaves of the main search.
func quiesce(ctx *Context, alpha, beta eval.Score) eval.Score {
	if ctx.ShouldStop() {
		return alpha
	}
	ctx.Nodes++

	standPat, ok := ctx.EvalCache[ctx.Position.Zobrist.Hash]
	if !ok {
		standPat = eval.Evaluate(ctx.Position)
		ctx.EvalCache[ctx.Position.Zobrist.Hash] = standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, mi := range board.Ordered(ctx.Position, board.OnlyCaptures) {
		ctx.Position.Make(mi)
		ctx.Nodes++
		score := -quiesce(ctx, -beta, -alpha)
		ctx.Position.Unmake(mi)

		if ctx.ShouldStop() {
			return alpha
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}
