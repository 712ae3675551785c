package search

import (
	"time"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/eval"
)

// IterativeDeepen searches ctx.Position to increasing depth, up to maxDepth, stopping
// early whenever ctx.ShouldStop reports true. It always returns the best complete
// result found; a depth that was interrupted partway through does not overwrite it,
// since a partially searched root cannot be trusted over alpha for every move, except
// at depth 1 where a partial result beats having no move at all. If out is non-nil,
// every result kept this way (each completed depth, and a partial depth 1) is also
// sent there, for "info ... pv ..." reporting.
func IterativeDeepen(ctx *Context, maxDepth int, out chan<- Result) Result {
	start := time.Now()

	root := board.Legal(ctx.Position, board.All)
	if len(root) == 0 {
		return Result{HasMove: false, Time: time.Since(start)}
	}

	var best Result
	order := board.StaticPriority

	for depth := 1; depth <= maxDepth; depth++ {
		if ctx.ShouldStop() {
			break
		}

		board.SortByPriority(root, order)
		alpha, beta := eval.NegInf, eval.Inf

		var bestMove board.MoveInfo
		var bestScore eval.Score
		interrupted := false
		found := false

		for _, mi := range root {
			ctx.Position.Make(mi)
			ctx.Nodes++

			var score eval.Score
			if !found {
				score = -alphaBeta(ctx, -beta, -alpha, depth-1, 1)
			} else {
				score = -alphaBeta(ctx, -alpha-1, -alpha, depth-1, 1)
				if score > alpha && score < beta {
					score = -alphaBeta(ctx, -beta, -alpha, depth-1, 1)
				}
			}
			ctx.Position.Unmake(mi)

			if ctx.ShouldStop() {
				interrupted = true
				break
			}

			if !found || score > alpha {
				alpha = score
				bestMove = mi
				bestScore = score
				found = true
				ctx.PV[0] = mi.Move
			}
		}

		if interrupted && depth > 1 {
			break
		}
		if !found {
			break
		}

		pv := make([]board.Move, 0, pvLength)
		for _, m := range ctx.PV {
			if m.Kind == board.MoveNormal && m.From == m.To {
				break
			}
			pv = append(pv, m)
		}

		best = Result{
			Depth:   depth,
			Score:   bestScore,
			PV:      pv,
			Nodes:   ctx.Nodes,
			Time:    time.Since(start),
			HasMove: true,
		}

		if out != nil {
			out <- best
		}

		order = board.First(bestMove.Move, board.StaticPriority)

		if interrupted {
			break
		}
		// A score this close to MateValue can only come from a forced mate line;
		// no deeper iteration changes the outcome.
		if bestScore > eval.MateValue-eval.Score(maxDepth) || bestScore < -eval.MateValue+eval.Score(maxDepth) {
			break
		}
	}

	best.Nodes = ctx.Nodes
	best.Time = time.Since(start)
	return best
}
