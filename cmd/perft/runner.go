package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesslib/internal/movegen"
	"github.com/hailam/chesslib/internal/position"
	"github.com/hailam/chesslib/internal/storage"
	"github.com/hailam/chesslib/internal/suite"
)

// runner executes perft requests, consulting the cache when one is open.
type runner struct {
	out   io.Writer
	cache *storage.Storage
	runID string
}

type result struct {
	Nodes    uint64
	Elapsed  time.Duration
	Cached   bool
	Recorded time.Time
}

func (r result) NPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}

// perft returns the leaf count of pos at depth. The cache is safe for
// concurrent use, so suite workers share one runner.
func (r *runner) perft(pos *position.Position, depth int) (result, error) {
	fen := pos.FEN()
	if r.cache != nil {
		cached, found, err := r.cache.Get(fen, depth)
		if err != nil {
			return result{}, err
		}
		if found {
			return result{Nodes: cached.Nodes, Elapsed: cached.Elapsed, Cached: true, Recorded: cached.Recorded}, nil
		}
	}

	start := time.Now()
	nodes := movegen.Perft(pos, depth)
	res := result{Nodes: nodes, Elapsed: time.Since(start)}

	if r.cache != nil {
		err := r.cache.Put(&storage.Result{
			RunID:   r.runID,
			FEN:     fen,
			Depth:   depth,
			Nodes:   nodes,
			Elapsed: res.Elapsed,
		})
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *runner) runSingle(fen string, depth int) error {
	pos, err := position.FromFEN(fen)
	if err != nil {
		return err
	}

	res, err := r.perft(pos, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Nodes: %s\n", humanize.Comma(int64(res.Nodes)))
	if res.Cached {
		fmt.Fprintf(r.out, "Cached: %s\n", humanize.Time(res.Recorded))
		return nil
	}
	fmt.Fprintf(r.out, "Time: %v\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(r.out, "NPS: %s\n", humanize.SIWithDigits(res.NPS(), 1, "nps"))
	return nil
}

func (r *runner) purgeRun(runID string) error {
	if r.cache == nil {
		return errors.New("no perft cache open")
	}
	n, err := r.cache.DeleteRun(runID)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Removed %d results of run %s\n", n, runID)
	return nil
}

func (r *runner) runDivide(fen string, depth int) error {
	pos, err := position.FromFEN(fen)
	if err != nil {
		return err
	}

	start := time.Now()
	entries, total := movegen.Divide(pos, depth)
	elapsed := time.Since(start)

	for _, e := range entries {
		fmt.Fprintf(r.out, "%s: %d\n", e.Text, e.Nodes)
	}
	fmt.Fprintf(r.out, "\nMoves: %d\n", len(entries))
	fmt.Fprintf(r.out, "Nodes: %s\n", humanize.Comma(int64(total)))
	fmt.Fprintf(r.out, "Time: %v\n", elapsed.Round(time.Millisecond))
	return nil
}

// caseReport collects one suite case's output so cases running in parallel
// print in suite order.
type caseReport struct {
	lines  []string
	failed int
	nodes  uint64
}

func (r *runner) runCase(c suite.Case, maxNodes uint64) (caseReport, error) {
	var rep caseReport
	pos, err := position.FromFEN(c.FEN)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", c.Name, err)
	}

	for depth := 1; depth <= c.MaxDepth(maxNodes); depth++ {
		want, _ := c.Expected(depth)
		res, err := r.perft(pos, depth)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", c.Name, err)
		}

		mark := "ok"
		if res.Nodes != want {
			mark = fmt.Sprintf("FAIL (want %s)", humanize.Comma(int64(want)))
			rep.failed++
		}
		rep.nodes += res.Nodes
		rep.lines = append(rep.lines, fmt.Sprintf("  depth %d: %s %s", depth, humanize.Comma(int64(res.Nodes)), mark))
	}
	return rep, nil
}

// runSuite checks every case up to the depth whose reference count stays
// within maxNodes, running up to jobs cases at once.
func (r *runner) runSuite(s *suite.Suite, maxNodes uint64, jobs int) error {
	reports := make([]caseReport, len(s.Cases))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, c := range s.Cases {
		i, c := i, c
		g.Go(func() error {
			rep, err := r.runCase(c, maxNodes)
			reports[i] = rep
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	var nodes uint64
	for i, c := range s.Cases {
		fmt.Fprintln(r.out, c.Name)
		for _, line := range reports[i].lines {
			fmt.Fprintln(r.out, line)
		}
		failed += reports[i].failed
		nodes += reports[i].nodes
	}
	fmt.Fprintf(r.out, "\n%d cases, %s nodes in %v\n", len(s.Cases), humanize.Comma(int64(nodes)),
		time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d perft counts did not match", failed)
	}
	return nil
}
