package movegen

import (
	"sort"
	"strings"

	"github.com/hailam/chesslib/internal/board"
)

// MaxMoves bounds the legal moves of any reachable chess position.
const MaxMoves = 256

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]board.Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m board.Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) board.Move {
	return ml.moves[i]
}

// Clear empties the list for reuse.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m board.Move) bool {
	for _, x := range ml.Moves() {
		if x == m {
			return true
		}
	}
	return false
}

// Moves returns the stored moves. The slice aliases the list.
func (ml *MoveList) Moves() []board.Move {
	return ml.moves[:ml.count]
}

// Collect stores every move it is handed; use it as a Sink.
func (ml *MoveList) Collect(m board.Move) bool {
	ml.Add(m)
	return true
}

// Strings formats the moves with format and sorts the result.
func (ml *MoveList) Strings(format func(board.Move) string) []string {
	out := make([]string, 0, ml.count)
	for _, m := range ml.Moves() {
		out = append(out, format(m))
	}
	sort.Strings(out)
	return out
}

func (ml *MoveList) String() string {
	return strings.Join(ml.Strings(board.Move.String), " ")
}
