// pinion is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/rookery-chess/pinion/pkg/engine"
	"github.com/rookery-chess/pinion/pkg/engine/console"
	"github.com/rookery-chess/pinion/pkg/engine/livews"
	"github.com/rookery-chess/pinion/pkg/engine/persist"
	"github.com/rookery-chess/pinion/pkg/engine/uci"
	"github.com/rookery-chess/pinion/pkg/search"
	"github.com/seekerror/logw"
)

var (
	config     = flag.String("config", "", "Path to a TOML configuration file (optional)")
	persistDir = flag.String("persist", "", "Directory for a persistent transposition table (optional)")
	listen     = flag.String("listen", "", "Address to serve a websocket spectator feed on (optional)")
)

// fileConfig is the shape of the optional TOML configuration file.
type fileConfig struct {
	DepthLimit int   `toml:"depth_limit"`
	ZobristSeed int64 `toml:"zobrist_seed"`
}

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: pinion [options]

pinion is a bitboard chess engine speaking UCI.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var cfg fileConfig
	if *config != "" {
		if _, err := toml.DecodeFile(*config, &cfg); err != nil {
			logw.Exitf(ctx, "Failed to read config %v: %v", *config, err)
		}
	}

	var opts []engine.Option
	if cfg.DepthLimit > 0 {
		opts = append(opts, engine.WithDepthLimit(cfg.DepthLimit))
	}
	if cfg.ZobristSeed != 0 {
		opts = append(opts, engine.WithZobristSeed(cfg.ZobristSeed))
	}

	e := engine.New(ctx, "pinion", "rookery", opts...)

	var store *persist.Store
	if *persistDir != "" {
		var err error
		store, err = persist.Open(*persistDir)
		if err != nil {
			logw.Exitf(ctx, "Failed to open persistent table at %v: %v", *persistDir, err)
		}
		if err := e.LoadTT(ctx, store); err != nil {
			logw.Warningf(ctx, "Failed to load persistent table: %v", err)
		}
		defer func() {
			if err := e.SaveTT(ctx, store); err != nil {
				logw.Warningf(ctx, "Failed to save persistent table: %v", err)
			}
			_ = store.Close()
		}()
	}

	var uciOpts []uci.Option
	if *listen != "" {
		hub := livews.NewHub()
		go func() {
			if err := http.ListenAndServe(*listen, hub); err != nil {
				logw.Errorf(ctx, "Spectator feed stopped: %v", err)
			}
		}()
		uciOpts = append(uciOpts, uci.WithSpectator(func(ctx context.Context, result search.Result) {
			hub.Broadcast(ctx, e.FEN(), result)
		}))
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in, uciOpts...)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
