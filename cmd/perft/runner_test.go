package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesslib/internal/position"
	"github.com/hailam/chesslib/internal/storage"
	"github.com/hailam/chesslib/internal/suite"
)

func TestRunSingleWithCache(t *testing.T) {
	cache, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	var out bytes.Buffer
	r := &runner{out: &out, cache: cache, runID: storage.NewRunID()}

	if err := r.runSingle(position.StartFEN, 3); err != nil {
		t.Fatalf("runSingle: %v", err)
	}
	if !strings.Contains(out.String(), "Nodes: 8,902\n") || strings.Contains(out.String(), "Cached") {
		t.Errorf("first run output:\n%s", out.String())
	}

	out.Reset()
	if err := r.runSingle(position.StartFEN, 3); err != nil {
		t.Fatalf("runSingle: %v", err)
	}
	if !strings.Contains(out.String(), "Cached: ") {
		t.Errorf("second run did not hit the cache:\n%s", out.String())
	}
}

func TestPurgeRun(t *testing.T) {
	cache, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	var out bytes.Buffer
	first := &runner{out: &out, cache: cache, runID: storage.NewRunID()}
	second := &runner{out: &out, cache: cache, runID: storage.NewRunID()}
	if err := first.runSingle(position.StartFEN, 1); err != nil {
		t.Fatal(err)
	}
	if err := second.runSingle(position.StartFEN, 2); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := second.purgeRun(first.runID); err != nil {
		t.Fatalf("purgeRun: %v", err)
	}
	if want := "Removed 1 results of run " + first.runID + "\n"; out.String() != want {
		t.Errorf("output %q, want %q", out.String(), want)
	}
	if _, found, _ := cache.Get(position.StartFEN, 1); found {
		t.Error("purged result still cached")
	}
	if _, found, _ := cache.Get(position.StartFEN, 2); !found {
		t.Error("other run's result was removed")
	}

	if err := (&runner{out: &out}).purgeRun(first.runID); err == nil {
		t.Error("purgeRun without a cache succeeded")
	}
}

func TestRunDivide(t *testing.T) {
	var out bytes.Buffer
	r := &runner{out: &out}
	if err := r.runDivide("8/8/8/8/8/8/8/K6k w - - 0 1", 2); err != nil {
		t.Fatal(err)
	}
	want := "a1a2: 3\na1b1: 3\na1b2: 3\n\nMoves: 3\nNodes: 9\n"
	if !strings.HasPrefix(out.String(), want) {
		t.Errorf("output:\n%s\nwant prefix:\n%s", out.String(), want)
	}

	if err := r.runDivide("not a fen", 1); err == nil {
		t.Error("runDivide accepted a bad FEN")
	}
}

func TestRunSuite(t *testing.T) {
	s, err := suite.Parse([]byte(`
cases:
  - name: kings
    fen: 8/8/8/8/8/8/8/K6k w - - 0 1
    nodes: [3, 9]
  - name: start
    fen: rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1
    nodes: [20, 400, 8902, 197281]
`))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	r := &runner{out: &out}
	if err := r.runSuite(s, 10000, 2); err != nil {
		t.Fatalf("runSuite: %v\n%s", err, out.String())
	}
	got := out.String()
	if !strings.HasPrefix(got, "kings\n  depth 1: 3 ok\n  depth 2: 9 ok\nstart\n") {
		t.Errorf("cases printed out of order:\n%s", got)
	}
	if strings.Contains(got, "depth 4") {
		t.Errorf("depth above the node limit ran:\n%s", got)
	}
}

func TestRunSuiteReportsMismatch(t *testing.T) {
	s := &suite.Suite{Cases: []suite.Case{{Name: "wrong", FEN: position.StartFEN, Nodes: []uint64{21}}}}

	var out bytes.Buffer
	r := &runner{out: &out}
	err := r.runSuite(s, 0, 1)
	if err == nil {
		t.Fatal("runSuite succeeded with a wrong reference count")
	}
	if !strings.Contains(out.String(), "depth 1: 20 FAIL (want 21)") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestOptionsValidation(t *testing.T) {
	good := options{FEN: position.StartFEN, Depth: 5, Jobs: 4}
	if err := suite.ValidateStruct(good); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}

	if err := suite.ValidateStruct(options{FEN: position.StartFEN, Depth: 1, Jobs: 1, PurgeRun: "latest"}); err == nil {
		t.Error("non-uuid run id accepted")
	}

	bad := options{FEN: "", Depth: 0, Jobs: 0}
	err := suite.ValidateStruct(bad)
	if err == nil {
		t.Fatal("invalid options accepted")
	}
	for _, want := range []string{"options.FEN is required", "options.Depth must be at least 1", "options.Jobs must be at least 1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
