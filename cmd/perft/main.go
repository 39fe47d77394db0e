// Command perft counts move-tree leaves from a placement, the standard way of
// checking a move generator against published node counts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

var (
	placement  = flag.String("placement", board.StartPlacement, "piece placement to search from")
	side       = flag.String("side", "w", "side to move (w or b)")
	depth      = flag.Int("depth", 4, "search depth in plies")
	divide     = flag.Bool("divide", false, "print the node count below each root move")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if *depth < 1 {
		log.Fatalf("depth must be positive, got %d", *depth)
	}

	color, err := game.ParseSide(*side)
	if err != nil {
		log.Fatal(err)
	}
	pos, err := board.ParsePlacement(*placement)
	if err != nil {
		log.Fatal(err)
	}
	if err := pos.SetSideToMove(color); err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	var nodes uint64
	if *divide {
		counts, err := pos.Divide(*depth)
		if err != nil {
			log.Fatal(err)
		}
		moves := make([]string, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		sort.Strings(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, counts[m])
			nodes += counts[m]
		}
		fmt.Println()
	} else {
		nodes, err = pos.Perft(*depth)
		if err != nil {
			log.Fatal(err)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
