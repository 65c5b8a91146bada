// Command perft counts move-generation leaf nodes for a position, optionally
// per root move, or checks a whole reference suite.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/hailam/chesslib/internal/position"
	"github.com/hailam/chesslib/internal/storage"
	"github.com/hailam/chesslib/internal/suite"
)

type options struct {
	FEN        string `validate:"required"`
	Depth      int    `validate:"min=1,max=12"`
	Divide     bool
	Suite      bool
	SuiteFile  string
	MaxNodes   uint64
	Jobs       int `validate:"min=1,max=256"`
	Cache      bool
	CacheDir   string
	PurgeRun   string `validate:"omitempty,uuid"`
	CPUProfile string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.FEN, "fen", position.StartFEN, "position to count")
	flag.IntVar(&o.Depth, "depth", 5, "search depth")
	flag.BoolVar(&o.Divide, "divide", false, "print the count below each root move")
	flag.BoolVar(&o.Suite, "suite", false, "run the reference suite instead of a single position")
	flag.StringVar(&o.SuiteFile, "suite-file", "", "YAML suite to run (default: built-in suite)")
	flag.Uint64Var(&o.MaxNodes, "max-nodes", 5000000, "suite: skip depths whose expected count exceeds this (0 = no limit)")
	flag.IntVar(&o.Jobs, "jobs", runtime.NumCPU(), "suite: cases run in parallel")
	flag.BoolVar(&o.Cache, "cache", false, "reuse and record results in the perft cache")
	flag.StringVar(&o.CacheDir, "cache-dir", "", "perft cache directory (default: user data directory)")
	flag.StringVar(&o.PurgeRun, "purge-run", "", "remove the cached results of a run id and exit (implies -cache)")
	flag.StringVar(&o.CPUProfile, "cpuprofile", "", "write cpu profile to file")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()
	if err := suite.ValidateStruct(opts); err != nil {
		log.Fatal("invalid options: ", err)
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := opts.CPUProfile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	r := &runner{out: os.Stdout, runID: storage.NewRunID()}
	if opts.Cache || opts.PurgeRun != "" {
		dir, err := storage.GetCacheDir(opts.CacheDir)
		if err != nil {
			return fmt.Errorf("perft cache: %w", err)
		}
		r.cache, err = storage.Open(dir)
		if err != nil {
			return err
		}
		defer r.cache.Close()
	}

	switch {
	case opts.PurgeRun != "":
		return r.purgeRun(opts.PurgeRun)
	case opts.Suite:
		s, err := loadSuite(opts.SuiteFile)
		if err != nil {
			return err
		}
		return r.runSuite(s, opts.MaxNodes, opts.Jobs)
	case opts.Divide:
		return r.runDivide(opts.FEN, opts.Depth)
	default:
		return r.runSingle(opts.FEN, opts.Depth)
	}
}

func loadSuite(filename string) (*suite.Suite, error) {
	if filename == "" {
		return suite.Default()
	}
	return suite.Load(filename)
}
