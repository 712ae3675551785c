// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
	"github.com/rookery-chess/pinion/pkg/engine"
	"github.com/rookery-chess/pinion/pkg/eval"
	"github.com/rookery-chess/pinion/pkg/search"
	"github.com/rookery-chess/pinion/pkg/search/searchctl"
)

// ProtocolName identifies this driver's protocol, for callers that support more than
// one.
const ProtocolName = "uci"

// Driver reads UCI commands from in and writes protocol responses to out. It runs its
// own goroutine and is safe to Close concurrently with command processing.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool // a "go" is outstanding and awaiting its bestmove
	ponder       chan search.Result
	lastPosition string
	spectate     func(ctx context.Context, result search.Result)

	quit   chan struct{}
	closed atomic.Bool
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithSpectator registers a callback invoked with every streamed search result, in
// addition to the normal "info"/"bestmove" protocol output — used to fan results out
// to a websocket spectator bridge without coupling this package to one.
func WithSpectator(fn func(ctx context.Context, result search.Result)) Option {
	return func(d *Driver) {
		d.spectate = fn
	}
}

// NewDriver starts processing in and returns a Driver plus the channel it writes
// protocol lines to.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.Result, 400),
		quit:   make(chan struct{}),
	}
	for _, fn := range opts {
		fn(d)
	}
	go d.process(ctx, in)
	return d, out
}

// Close tears down the driver, halting any active search.
func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

// Closed reports when the driver has shut down.
func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			d.handle(ctx, line)

		case result := <-d.ponder:
			if d.active.Load() {
				d.out <- printResult(result)
			}
			if d.spectate != nil {
				d.spectate(ctx, result)
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handle(ctx context.Context, line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "uci":
		d.out <- fmt.Sprintf("id name %v", d.e.Name())
		d.out <- fmt.Sprintf("id author %v", d.e.Author())
		d.out <- "uciok"

	case "isready":
		d.out <- "readyok"

	case "debug", "setoption", "register", "ponderhit":
		// Not supported: this engine exposes no tunable options.

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.lastPosition = ""
		if err := d.e.Reset(ctx, fen.Initial); err != nil {
			logw.Errorf(ctx, "ucinewgame reset failed: %v", err)
		}

	case "position":
		d.handlePosition(ctx, line, args)

	case "go":
		d.handleGo(ctx, args)

	case "stop":
		if result, err := d.e.Stop(); err == nil {
			d.searchCompleted(result)
		}

	case "quit":
		d.Close()

	default:
		logw.Warningf(ctx, "Unknown command %q, ignored", cmd)
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid move %q ignored: %v", arg, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	record := fen.Initial
	rest := args
	if len(args) >= 7 && args[0] == "fen" {
		record = strings.Join(args[1:7], " ")
		rest = args[7:]
	} else if len(args) >= 1 && args[0] == "startpos" {
		rest = args[1:]
	}

	if err := d.e.Reset(ctx, record); err != nil {
		logw.Errorf(ctx, "Invalid position %q ignored: %v", line, err)
		return
	}

	applying := false
	for _, arg := range rest {
		if arg == "moves" {
			applying = true
			continue
		}
		if !applying {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid move %q ignored: %v", arg, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, args []string) {
	d.ensureInactive(ctx)

	var opt searchctl.GoOptions
	movetime := time.Duration(0)
	var wtime, btime, winc, binc time.Duration
	haveClock := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			opt.Infinite = true
		case "depth":
			i++
			if n, err := readInt(args, i); err == nil {
				opt.HasDepth, opt.Depth = true, n
			}
		case "movetime":
			i++
			if n, err := readInt(args, i); err == nil {
				movetime = time.Duration(n) * time.Millisecond
			}
		case "wtime":
			i++
			if n, err := readInt(args, i); err == nil {
				wtime, haveClock = time.Duration(n)*time.Millisecond, true
			}
		case "btime":
			i++
			if n, err := readInt(args, i); err == nil {
				btime, haveClock = time.Duration(n)*time.Millisecond, true
			}
		case "winc":
			i++
			if n, err := readInt(args, i); err == nil {
				winc = time.Duration(n) * time.Millisecond
			}
		case "binc":
			i++
			if n, err := readInt(args, i); err == nil {
				binc = time.Duration(n) * time.Millisecond
			}
		case "movestogo":
			i++
			if n, err := readInt(args, i); err == nil {
				opt.MovesToGo = n
			}
		default:
			// searchmoves, ponder, nodes, mate: not implemented, ignored.
		}
	}
	if movetime > 0 {
		opt.HasMoveTime, opt.MoveTime = true, movetime
	} else if haveClock {
		opt.HasClock = true
		if d.e.SideToMove() == board.White {
			opt.TimeLeft, opt.Increment = wtime, winc
		} else {
			opt.TimeLeft, opt.Increment = btime, binc
		}
	}

	out, err := d.e.Go(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "go failed: %v", err)
		return
	}
	d.active.Store(true)

	infinite := opt.Infinite
	go func() {
		var last search.Result
		for result := range out {
			last = result
			d.ponder <- result
		}
		if !infinite {
			d.searchCompleted(last)
		}
	}()
}

// readInt reads args[i] as an integer, guarding against a missing trailing value.
func readInt(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("uci: missing argument")
	}
	return strconv.Atoi(args[i])
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Stop()
}

func (d *Driver) searchCompleted(result search.Result) {
	if d.active.CAS(true, false) {
		d.out <- printResult(result)
		if result.HasMove && len(result.PV) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", result.PV[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

func printResult(r search.Result) string {
	parts := []string{"info", fmt.Sprintf("depth %v", r.Depth)}

	if r.Score >= eval.MateValue-1000 || r.Score <= -eval.MateValue+1000 {
		mateIn := (eval.MateValue - abs(r.Score) + 1) / 2
		if r.Score < 0 {
			mateIn = -mateIn
		}
		parts = append(parts, fmt.Sprintf("score mate %v", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(r.Score)))
	}

	parts = append(parts, fmt.Sprintf("nodes %v", r.Nodes))
	parts = append(parts, fmt.Sprintf("time %v", r.Time.Milliseconds()))
	if r.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(float64(r.Nodes)/r.Time.Seconds())))
	}
	if len(r.PV) > 0 {
		parts = append(parts, "pv", board.FormatMoves(r.PV))
	}
	return strings.Join(parts, " ")
}

func abs(s eval.Score) eval.Score {
	if s < 0 {
		return -s
	}
	return s
}
