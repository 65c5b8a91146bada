package movegen

import "github.com/hailam/chesslib/internal/position"

// Status classifies a position from the side to move's point of view.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawRule50
	DrawRepetition
	DrawInsufficientMaterial
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawRule50:
		return "draw by fifty-move rule"
	case DrawRepetition:
		return "draw by threefold repetition"
	case DrawInsufficientMaterial:
		return "draw by insufficient material"
	default:
		return "unknown"
	}
}

// IsOver reports whether the game has ended.
func (s Status) IsOver() bool {
	return s != Ongoing
}

// GetStatus classifies the position. Mate takes precedence over the
// fifty-move rule; repetition is confirmed against the move history.
func GetStatus(pos *position.Position) Status {
	if !HasAnyLegalMove(pos) {
		if pos.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if pos.InRule50() {
		return DrawRule50
	}
	if pos.InInsufficientMaterial() {
		return DrawInsufficientMaterial
	}
	if pos.InVerifiedThreeFoldRepetition() {
		return DrawRepetition
	}
	return Ongoing
}

// IsCheckmate returns true if the side to move is mated.
func IsCheckmate(pos *position.Position) bool {
	return pos.InCheck() && !HasAnyLegalMove(pos)
}

// IsStalemate returns true if the side to move has no move and is not in check.
func IsStalemate(pos *position.Position) bool {
	return !pos.InCheck() && !HasAnyLegalMove(pos)
}
