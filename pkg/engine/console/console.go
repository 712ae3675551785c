// Package console implements a human-readable debug driver: type moves and commands
// interactively instead of speaking the UCI wire protocol.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"

	"github.com/rookery-chess/pinion/pkg/board/fen"
	"github.com/rookery-chess/pinion/pkg/engine"
	"github.com/rookery-chess/pinion/pkg/search"
	"github.com/rookery-chess/pinion/pkg/search/searchctl"
)

const ProtocolName = "console"

// Driver is a line-oriented debug driver: "d" prints the board, "go [depth]" searches,
// "stop" halts, moves in long algebraic apply directly.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool
	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{e: e, out: out, quit: make(chan struct{})}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")
	d.out <- fmt.Sprintf("%v by %v", d.e.Name(), d.e.Author())
	d.out <- d.e.FEN()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				return
			}
			d.handle(ctx, line)

		case <-d.quit:
			_, _ = d.e.Stop()
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
	case "d", "print":
		d.out <- d.e.FEN()

	case "reset", "r":
		record := fen.Initial
		if len(args) > 0 && args[0] != "moves" {
			n := len(args)
			if n > 6 {
				n = 6
			}
			record = strings.Join(args[:n], " ")
		}
		if err := d.e.Reset(ctx, record); err != nil {
			d.out <- fmt.Sprintf("error: %v", err)
			return
		}
		d.out <- d.e.FEN()

	case "go":
		var opt searchctl.GoOptions
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				opt.HasDepth, opt.Depth = true, n
			}
		} else {
			opt.HasDepth, opt.Depth = true, 6
		}

		out, err := d.e.Go(ctx, opt)
		if err != nil {
			d.out <- fmt.Sprintf("error: %v", err)
			return
		}
		d.active.Store(true)

		go func() {
			var last search.Result
			for result := range out {
				last = result
				d.out <- last.String()
			}
			if d.active.CAS(true, false) && last.HasMove {
				d.out <- fmt.Sprintf("bestmove %v", last.PV[0])
			}
		}()

	case "stop":
		if result, err := d.e.Stop(); err == nil {
			d.out <- result.String()
		}

	case "quit":
		d.Close()

	default:
		if err := d.e.Move(ctx, cmd); err != nil {
			d.out <- fmt.Sprintf("error: %v", err)
			return
		}
		d.out <- d.e.FEN()
	}
}
