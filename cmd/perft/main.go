// perft is a move-generator debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/seekerror/logw"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/board/fen"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
	parallel = flag.Bool("parallel", false, "Divide root moves across goroutines")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	record := *position
	if record == "" {
		record = fen.Initial
	}

	zt := board.NewZobristTable(0)
	pos, err := fen.Decode(zt, record)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", record, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()

		var nodes int64
		if *parallel {
			nodes = perftParallel(pos, i, *divide && i == *depth)
		} else {
			nodes = perft(pos, i, *divide && i == *depth)
		}

		duration := time.Since(start)
		fmt.Printf("perft,%v,%v,%v,%v\n", record, i, nodes, duration.Microseconds())
	}
}

func perft(pos *board.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, mi := range board.Legal(pos, board.All) {
		pos.Make(mi)
		count := perft(pos, depth-1, false)
		pos.Unmake(mi)

		if d {
			fmt.Printf("%v: %v\n", mi, count)
		}
		nodes += count
	}
	return nodes
}

// perftParallel divides root moves across goroutines, one cloned Position per worker,
// per the optional perft-parallelism allowance: Position is cheaply clonable since all
// of its state is either copied by value or a shared pointer to an immutable head.
func perftParallel(pos *board.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	moves := board.Legal(pos, board.All)
	results := make([]int64, len(moves))

	var wg sync.WaitGroup
	for i, mi := range moves {
		wg.Add(1)
		go func(i int, mi board.MoveInfo) {
			defer wg.Done()

			clone := pos.Clone()
			clone.Make(mi)
			results[i] = perft(clone, depth-1, false)
		}(i, mi)
	}
	wg.Wait()

	var nodes int64
	for i, mi := range moves {
		if d {
			fmt.Printf("%v: %v\n", mi, results[i])
		}
		nodes += results[i]
	}
	return nodes
}
