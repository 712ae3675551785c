// Package engine ties a Position, its search caches, and the iterative-deepening
// search together behind a single mutex-guarded API that a protocol adapter can drive.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
	"github.com/rookery-chess/pinion/pkg/engine/persist"
	"github.com/rookery-chess/pinion/pkg/eval"
	"github.com/rookery-chess/pinion/pkg/search"
	"github.com/rookery-chess/pinion/pkg/search/searchctl"
)

var version = build.NewVersion(0, 1, 0)

// Options configure an Engine at construction time.
type Options struct {
	// DepthLimit, if set, caps search depth regardless of what a "go" command asks
	// for. Unset means no engine-imposed cap beyond searchctl.DefaultMaxDepth.
	DepthLimit lang.Optional[int]
	// Seed is the Zobrist key table's random seed. Two engines with the same seed
	// produce identical hashes for identical positions.
	Seed int64
}

// Option is an engine construction option.
type Option func(*Engine)

// WithDepthLimit caps every search's depth regardless of the caller's request.
func WithDepthLimit(depth int) Option {
	return func(e *Engine) {
		e.opts.DepthLimit = lang.Some(depth)
	}
}

// WithZobristSeed sets the Zobrist key table's random seed.
func WithZobristSeed(seed int64) Option {
	return func(e *Engine) {
		e.opts.Seed = seed
	}
}

// Engine aggregates a Position, its transposition table and evaluation cache, and the
// is-searching flag the search polls. Repetition bookkeeping lives on the Position
// itself, as a linked chain of prior Zobrist hashes that IsDraw walks directly; the
// Engine does not keep a second copy of it. Exactly one search may be active at a
// time; configuration commands (Reset, Move) halt any active search first and hold
// the lock for their duration.
type Engine struct {
	name, author string
	opts         Options

	zt *board.ZobristTable

	mu        sync.Mutex
	pos       *board.Position
	tt        *search.TranspositionTable
	evalCache map[board.ZobristHash]eval.Score

	searching bool
	active    *atomic.Bool
	stopCh    chan struct{}
	stopOnce  *sync.Once
	lastPV    search.Result
	wg        sync.WaitGroup
}

// New constructs an Engine positioned at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{name: name, author: author}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.opts.Seed)

	if err := e.Reset(ctx, fen.Initial); err != nil {
		panic(fmt.Sprintf("engine: invalid initial position: %v", err))
	}

	logw.Infof(ctx, "Initialized engine: %v", e.Name())
	return e
}

// Name returns the engine name and version, for the UCI "id name" line.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author, for the UCI "id author" line.
func (e *Engine) Author() string {
	return e.author
}

// SideToMove returns the color to move in the current position.
func (e *Engine) SideToMove() board.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.Side
}

// FEN returns the current position in Forsyth-Edwards notation.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.pos)
}

// Reset halts any active search and sets the position from a FEN record, clearing the
// transposition table and evaluation cache — the ucinewgame contract.
func (e *Engine) Reset(ctx context.Context, record string) error {
	e.haltAndWait()

	pos, err := fen.Decode(e.zt, record)
	if err != nil {
		return fmt.Errorf("engine: invalid position: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.pos = pos
	e.tt = search.NewTranspositionTable()
	e.evalCache = make(map[board.ZobristHash]eval.Score)

	logw.Infof(ctx, "Reset to %v", record)
	return nil
}

// Move applies a long-algebraic move string (as sent in "position ... moves ...") to
// the current position. The move must be legal; ambiguous shapes (is it a capture, an
// en passant, a castle?) are resolved by board.FindMove against the live position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.haltAndWait()

	e.mu.Lock()
	defer e.mu.Unlock()

	from, to, promo, err := board.ParseLongAlgebraic(move)
	if err != nil {
		return fmt.Errorf("engine: invalid move %q: %w", move, err)
	}
	mi, ok := board.FindMove(e.pos, from, to, promo)
	if !ok {
		return fmt.Errorf("engine: illegal move %q", move)
	}

	e.pos.Make(mi)

	logw.Infof(ctx, "Applied %v", move)
	return nil
}

// Searching reports whether a search is currently active.
func (e *Engine) Searching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searching
}

// Go launches a search against the current position and returns a channel that
// receives one Result per completed depth, closed when the search stops (by
// exhausting its depth cap, its time budget, or an explicit Stop). Only one search
// may be active at a time.
func (e *Engine) Go(ctx context.Context, opts searchctl.GoOptions) (<-chan search.Result, error) {
	e.mu.Lock()
	if e.searching {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine: search already active")
	}

	budget := searchctl.Resolve(opts, e.pos.Halfmove)
	maxDepth := budget.MaxDepth
	if limit, ok := e.opts.DepthLimit.V(); ok && limit < maxDepth {
		maxDepth = limit
	}

	active := atomic.NewBool(true)
	stop := make(chan struct{})

	sctx := &search.Context{
		Position:  e.pos,
		TT:        e.tt,
		EvalCache: e.evalCache,
		Active:    active,
		Stop:      stop,
	}
	if budget.HasTimeLimit {
		sctx.HasDeadline = true
		sctx.Deadline = time.Now().Add(budget.TimeLimit)
	}

	e.searching = true
	e.active = active
	e.stopCh = stop
	e.stopOnce = &sync.Once{}

	out := make(chan search.Result, searchctl.DefaultMaxDepth+1)
	e.wg.Add(1)

	logw.Infof(ctx, "Search started: %v, budget=%+v", fen.Encode(e.pos), budget)

	go func() {
		defer e.wg.Done()

		result := search.IterativeDeepen(sctx, maxDepth, out)
		if result.Depth == 0 {
			// No depth ever completed (no legal moves, or stopped before depth 1
			// found anything) — IterativeDeepen never streamed a Result on its own.
			out <- result
		}
		close(out)

		e.mu.Lock()
		e.lastPV = result
		e.searching = false
		e.mu.Unlock()

		logw.Infof(ctx, "Search completed: %v", result)
	}()

	e.mu.Unlock()
	return out, nil
}

// Stop raises the stop token for the active search and blocks until it has unwound,
// returning its final result. Returns an error if no search is active.
func (e *Engine) Stop() (search.Result, error) {
	e.mu.Lock()
	if !e.searching {
		e.mu.Unlock()
		return search.Result{}, fmt.Errorf("engine: no active search")
	}
	e.active.Store(false)
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.mu.Unlock()

	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastPV, nil
}

// SaveTT snapshots the current transposition table into store, for an engine run as a
// long-lived analysis daemon to survive a restart. It does not halt a live search; the
// snapshot may miss entries written after it starts copying.
func (e *Engine) SaveTT(ctx context.Context, store *persist.Store) error {
	e.mu.Lock()
	tt := e.tt
	e.mu.Unlock()
	return store.Save(ctx, tt)
}

// LoadTT restores a previously saved transposition table from store, merging it into
// the table the engine already has. Halts any active search first, since Restore
// mutates the same map a running search reads from.
func (e *Engine) LoadTT(ctx context.Context, store *persist.Store) error {
	e.haltAndWait()

	e.mu.Lock()
	tt := e.tt
	e.mu.Unlock()
	return store.Load(ctx, tt)
}

// haltAndWait stops any active search and blocks until its goroutine has exited, so
// that configuration commands never race with a live make/unmake sequence.
func (e *Engine) haltAndWait() {
	e.mu.Lock()
	if e.searching {
		e.active.Store(false)
		e.stopOnce.Do(func() { close(e.stopCh) })
	}
	e.mu.Unlock()

	e.wg.Wait()
}
