// Package search contains the iterative-deepening principal-variation search, its
// transposition table, and the time/stop control the search polls at node entry.
package search

import (
	"fmt"
	"time"

	"go.uber.org/atomic"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/eval"
)

// pvLength bounds the principal-variation buffer, mirroring the transposition table's
// fixed 10-slot scheme.
const pvLength = 10

// Context carries everything a single search invocation needs: the position being
// searched (mutated in place via make/unmake), shared caches, and the cooperative
// stop signal. Not safe for concurrent use — the engine owns exactly one search at a
// time, per the single-threaded search model.
type Context struct {
	Position *board.Position

	TT        *TranspositionTable
	EvalCache map[board.ZobristHash]eval.Score

	Active      *atomic.Bool // false means a caller asked the engine to stop searching.
	Stop        <-chan struct{}
	Deadline    time.Time
	HasDeadline bool

	Nodes uint64
	PV    [pvLength]board.Move
}

// ShouldStop checks, in order, the is-searching flag, a non-blocking receive on the
// stop channel, and the wall-clock deadline. Any one of them unwinds the search.
func (ctx *Context) ShouldStop() bool {
	if ctx.Active != nil && !ctx.Active.Load() {
		return true
	}
	select {
	case <-ctx.Stop:
		return true
	default:
	}
	if ctx.HasDeadline && time.Now().After(ctx.Deadline) {
		return true
	}
	return false
}

// Result is one iterative-deepening pass's outcome.
type Result struct {
	Depth   int
	Score   eval.Score
	PV      []board.Move
	Nodes   uint64
	Time    time.Duration
	HasMove bool
}

func (r Result) String() string {
	return fmt.Sprintf("info score cp %d pv %s depth %d", r.Score, board.FormatMoves(r.PV), r.Depth)
}
