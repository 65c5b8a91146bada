package position

import (
	"fmt"

	"github.com/hailam/chesslib/internal/board"
)

// MoveString formats m in UCI coordinate notation. Standard-chess castling is
// written as the king's two-square move; Chess960 castling keeps the
// king-takes-rook form.
func (p *Position) MoveString(m board.Move) string {
	if m.Type() == board.Castling && !p.chess960 {
		return m.Start().String() + p.castlingKingDest[m.Dest()].String()
	}
	return m.String()
}

// ParseMove parses a UCI move such as "e2e4", "e7e8q", "e1g1" or, in
// Chess960, "e1h1" and checks that it is legal in the current position.
func (p *Position) ParseMove(s string) (board.Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return board.NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	start, err := board.ParseSquare(s[0:2])
	if err != nil {
		return board.NullMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	dest, err := board.ParseSquare(s[2:4])
	if err != nil {
		return board.NullMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}

	promo := board.NoPieceType
	if len(s) == 5 {
		promo = board.PieceTypeFromChar(s[4])
		if promo < board.Knight || promo > board.Queen {
			return board.NullMove, fmt.Errorf("%w: %q: bad promotion piece", ErrInvalidMove, s)
		}
	}

	us := p.sideToMove
	pc := p.squares[start]
	if pc == board.NoPiece || pc.Color() != us {
		return board.NullMove, fmt.Errorf("%w: %s: no piece of the side to move on %s", ErrIllegalMove, s, start)
	}

	var m board.Move
	switch {
	case pc.Type() == board.King && !p.chess960 && start.Rank() == dest.Rank() && absFileDistance(start, dest) == 2:
		right := board.LongCastling(us)
		if dest > start {
			right = board.ShortCastling(us)
		}
		m = p.castlingMoves[right]

	case pc.Type() == board.King && p.squares[dest] == board.NewPiece(board.Rook, us):
		m = board.NewMove(start, dest, board.Castling)

	case pc.Type() == board.Pawn:
		switch {
		case dest.RelativeRank(us) == board.Rank8:
			if promo == board.NoPieceType {
				return board.NullMove, fmt.Errorf("%w: %s: promotion piece required", ErrIllegalMove, s)
			}
			m = board.NewPromotion(start, dest, promo)
		case absRankDistance(start, dest) == 2:
			m = board.NewMove(start, dest, board.PawnPushTwice)
		case dest == p.st().EnPassant:
			m = board.NewMove(start, dest, board.EnPassant)
		default:
			m = board.NewMove(start, dest, board.PawnMove)
		}

	default:
		m = board.NewMove(start, dest, board.Normal)
	}

	if promo != board.NoPieceType && m.Type() != board.Promotion {
		return board.NullMove, fmt.Errorf("%w: %s: unexpected promotion piece", ErrIllegalMove, s)
	}
	if m == board.NullMove || !p.IsPseudoLegal(m) || !p.IsLegal(m) {
		return board.NullMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}
	return m, nil
}

func absFileDistance(a, b board.Square) int {
	d := int(a.File()) - int(b.File())
	if d < 0 {
		return -d
	}
	return d
}

func absRankDistance(a, b board.Square) int {
	d := int(a.Rank()) - int(b.Rank())
	if d < 0 {
		return -d
	}
	return d
}
