package position

import (
	"strings"

	"github.com/hailam/chesslib/internal/board"
)

// InRule50 reports whether the fifty-move rule applies. It does not check
// whether the last move delivered mate; callers that care ask the generator.
func (p *Position) InRule50() bool {
	return p.st().Rule50 >= Rule50Plies
}

// InThreeFoldRepetition reports whether the current position occurred at
// least three times before since the last irreversible move. It trusts the
// Zobrist key; see InVerifiedThreeFoldRepetition for a collision-proof answer.
func (p *Position) InThreeFoldRepetition() bool {
	return p.st().Repetition >= RepetitionsToDraw
}

// InVerifiedThreeFoldRepetition confirms InThreeFoldRepetition by comparing
// the placement, side, castling and en passant fields of every earlier
// position in the reversible window. The position is restored before return.
func (p *Position) InVerifiedThreeFoldRepetition() bool {
	if !p.InThreeFoldRepetition() {
		return false
	}

	st := p.st()
	target := fenKey(p.FEN())
	end := min(st.Rule50, st.Ply)

	undone := make([]board.Move, 0, end)
	defer func() {
		for i := len(undone) - 1; i >= 0; i-- {
			p.MakeMove(undone[i])
		}
	}()

	count := 1
	for i := 1; i <= end; i++ {
		undone = append(undone, p.LastMove())
		p.UndoMove()
		if i%2 == 0 && fenKey(p.FEN()) == target {
			count++
			if count >= RepetitionsToDraw {
				return true
			}
		}
	}
	return false
}

// fenKey keeps the four FEN fields that identify a position for repetition.
func fenKey(fen string) string {
	fields := strings.Fields(fen)
	return strings.Join(fields[:4], " ")
}

// InInsufficientMaterial reports whether neither side can possibly mate:
// bare kings, a single minor piece, or one bishop each on same-colored
// squares.
func (p *Position) InInsufficientMaterial() bool {
	if p.byType[board.Pawn]|p.byType[board.Rook]|p.byType[board.Queen] != 0 {
		return false
	}

	switch p.occupied.PopCount() {
	case 2, 3:
		return true
	case 4:
		bishops := p.byType[board.Bishop]
		if bishops.PopCount() != 2 {
			return false
		}
		return bishops&board.LightSquares == bishops || bishops&board.DarkSquares == bishops
	}
	return false
}
