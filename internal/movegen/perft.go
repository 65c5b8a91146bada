package movegen

import (
	"sort"

	"github.com/hailam/chesslib/internal/board"
	"github.com/hailam/chesslib/internal/position"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// This is the standard way to verify move generation correctness.
func Perft(pos *position.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var ml MoveList
	Generate(pos, ml.Collect)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Moves() {
		pos.MakeMove(m)
		nodes += Perft(pos, depth-1)
		pos.UndoMove()
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  board.Move
	Text  string // UCI text of Move in the root position
	Nodes uint64
}

// Divide runs Perft below each root move, sorted by move text. The total is
// the sum of the entry counts.
func Divide(pos *position.Position, depth int) ([]DivideEntry, uint64) {
	if depth <= 0 {
		return nil, 1
	}

	var ml MoveList
	Generate(pos, ml.Collect)

	entries := make([]DivideEntry, 0, ml.Len())
	var total uint64
	for _, m := range ml.Moves() {
		text := pos.MoveString(m)
		pos.MakeMove(m)
		n := Perft(pos, depth-1)
		pos.UndoMove()

		entries = append(entries, DivideEntry{Move: m, Text: text, Nodes: n})
		total += n
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Text < entries[j].Text })
	return entries, total
}
