package suite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chesslib/internal/movegen"
	"github.com/hailam/chesslib/internal/position"
)

func TestDefaultSuite(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(s.Cases) < 10 {
		t.Fatalf("default suite has %d cases", len(s.Cases))
	}

	start, ok := s.Find("start")
	if !ok {
		t.Fatal("start case missing")
	}
	if start.FEN != position.StartFEN {
		t.Errorf("start FEN = %q", start.FEN)
	}
	if n, ok := start.Expected(5); !ok || n != 4865609 {
		t.Errorf("Expected(5) = %d, %v", n, ok)
	}
}

// TestDefaultSuiteShallow runs every case of the embedded suite to the depth
// that stays under a small node budget.
func TestDefaultSuiteShallow(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	for _, c := range s.Cases {
		t.Run(c.Name, func(t *testing.T) {
			pos, err := position.FromFEN(c.FEN)
			if err != nil {
				t.Fatalf("FromFEN: %v", err)
			}
			depth := c.MaxDepth(20000)
			for d := 1; d <= depth; d++ {
				want, _ := c.Expected(d)
				if got := movegen.Perft(pos, d); got != want {
					t.Errorf("perft(%d) = %d, want %d", d, got, want)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"not yaml", "cases: [", "invalid perft suite"},
		{"no cases", "cases: []", "Suite.Cases"},
		{"missing name", "cases:\n  - fen: 8/8/8/8/8/8/8/K6k w - - 0 1\n    nodes: [3]\n", "Suite.Cases[0].Name is required"},
		{"illegal fen", "cases:\n  - name: x\n    fen: 8/8/8/8/8/8/8/8 w - - 0 1\n    nodes: [1]\n", "is not a legal position"},
		{"zero count", "cases:\n  - name: x\n    fen: 8/8/8/8/8/8/8/K6k w - - 0 1\n    nodes: [3, 0]\n", "Suite.Cases[0].Nodes[1] must be at least 1"},
		{"duplicate", "cases:\n  - name: x\n    fen: 8/8/8/8/8/8/8/K6k w - - 0 1\n    nodes: [3]\n" +
			"  - name: x\n    fen: 8/8/8/8/8/8/8/K6k b - - 0 1\n    nodes: [3]\n", `case "x" duplicated`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !errors.Is(err, ErrInvalidSuite) {
				t.Errorf("error %v does not wrap ErrInvalidSuite", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	data := "cases:\n  - name: kings\n    fen: 8/8/8/8/8/8/8/K6k w - - 0 1\n    nodes: [3, 9]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := s.Cases[0]
	if c.Name != "kings" || len(c.Nodes) != 2 {
		t.Errorf("case = %+v", c)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestMaxDepth(t *testing.T) {
	c := Case{Nodes: []uint64{20, 400, 8902, 197281}}
	tests := []struct {
		max  uint64
		want int
	}{
		{0, 4},
		{10, 0},
		{400, 2},
		{100000, 3},
		{1 << 40, 4},
	}
	for _, tc := range tests {
		if got := c.MaxDepth(tc.max); got != tc.want {
			t.Errorf("MaxDepth(%d) = %d, want %d", tc.max, got, tc.want)
		}
	}
	if _, ok := c.Expected(5); ok {
		t.Error("Expected(5) reported a count")
	}
}

func TestFENValidation(t *testing.T) {
	v := newValidator()
	if err := v.Var(position.StartFEN, "fen"); err != nil {
		t.Errorf("start position rejected: %v", err)
	}
	if err := v.Var("8/8/8/8/8/8/8/8 w - - 0 1", "fen"); err == nil {
		t.Error("position without kings accepted")
	}
}
