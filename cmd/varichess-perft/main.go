// Command varichess-perft runs perft verification over single positions or
// suite files, with optional result caching and CPU profiling.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"

	"github.com/hailam/varichess/internal/board"
	"github.com/hailam/varichess/internal/storage"
	"github.com/hailam/varichess/internal/suite"
)

var (
	fenFlag     = flag.String("fen", "", "position to count (defaults to the variant's start position)")
	variantFlag = flag.String("variant", "standard", "variant: standard, antichess, atomic, crazyhouse, placement, extinction, grid, horde, losers, racingkings, twokings")
	depthFlag   = flag.Int("depth", 5, "perft depth")
	divideFlag  = flag.Bool("divide", false, "print per-move subtree counts")
	suiteFlag   = flag.String("suite", "", "run a YAML or EPD perft suite instead of a single position")
	cacheFlag   = flag.Bool("cache", false, "cache suite results in the local database")
	profileFlag = flag.Bool("profile", false, "write a CPU profile to the working directory")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *profileFlag {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	if *suiteFlag != "" {
		if err := runSuite(*suiteFlag, *cacheFlag); err != nil {
			log.Fatalf("suite failed: %v", err)
		}
		return
	}

	if err := runSingle(); err != nil {
		log.Fatalf("perft failed: %v", err)
	}
}

func runSingle() error {
	v, err := board.ParseVariant(*variantFlag)
	if err != nil {
		return err
	}

	fen := *fenFlag
	if fen == "" {
		fen = board.VariantStartFEN(v)
	}
	pos, err := board.ParseVariantFEN(fen, v)
	if err != nil {
		return err
	}

	start := time.Now()
	if *divideFlag {
		counts := board.Divide(pos, *depthFlag)
		moves := make([]string, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		sort.Strings(moves)

		var total int64
		for _, m := range moves {
			fmt.Printf("%-7s %d\n", m, counts[m])
			total += counts[m]
		}
		fmt.Printf("\ntotal %d (%v)\n", total, time.Since(start).Round(time.Millisecond))
		return nil
	}

	nodes := board.Perft(pos, *depthFlag)
	elapsed := time.Since(start)
	fmt.Printf("perft(%d) = %d (%v, %.0f nodes/s)\n",
		*depthFlag, nodes, elapsed.Round(time.Millisecond),
		float64(nodes)/elapsed.Seconds())
	return nil
}

func runSuite(path string, useCache bool) error {
	s, err := suite.Load(path)
	if err != nil {
		return err
	}

	var cache *storage.Cache
	if useCache {
		cache, err = storage.Open()
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()
	}

	total := 0
	for _, e := range s.Entries {
		total += len(e.Depths)
	}
	bar := progressbar.Default(int64(total), "perft suite")

	failures := 0
	for _, e := range s.Entries {
		variantName := e.Variant
		if variantName == "" {
			variantName = "standard"
		}
		v, err := board.ParseVariant(variantName)
		if err != nil {
			return fmt.Errorf("entry %q: %w", e.FEN, err)
		}

		for _, depth := range e.SortedDepths() {
			want := e.Depths[depth]

			var got int64
			cached := false
			if cache != nil {
				got, cached, err = cache.Get(variantName, e.FEN, depth)
				if err != nil {
					return err
				}
			}
			if !cached {
				pos, err := board.ParseVariantFEN(e.FEN, v)
				if err != nil {
					return fmt.Errorf("entry %q: %w", e.FEN, err)
				}
				got = board.Perft(pos, depth)
				if cache != nil {
					if err := cache.Put(variantName, e.FEN, depth, got); err != nil {
						return err
					}
				}
			}

			if got != want {
				failures++
				log.Printf("FAIL %s %s D%d: got %d want %d", variantName, e.FEN, depth, got, want)
			}
			_ = bar.Add(1)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d expectation(s) failed", failures)
	}
	fmt.Println("suite passed")
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: varichess-perft [flags]\n\n")
		flag.PrintDefaults()
	}
}
