package board

// Move packs a chess move into 18 bits:
// bits 0-5:   start square
// bits 6-11:  destination square
// bits 12-14: move type
// bits 15-17: promotion piece type (only meaningful for Promotion)
//
// Castling is stored as the king capturing its own rook, so the destination
// of a castling move is the rook's square in both standard chess and Chess960.
type Move uint32

// MoveType tags the board mutation a move needs.
type MoveType uint8

const (
	Normal MoveType = iota
	PawnMove
	PawnPushTwice
	Castling
	Promotion
	EnPassant
)

func (t MoveType) String() string {
	switch t {
	case Normal:
		return "normal"
	case PawnMove:
		return "pawn"
	case PawnPushTwice:
		return "double-push"
	case Castling:
		return "castling"
	case Promotion:
		return "promotion"
	case EnPassant:
		return "en-passant"
	default:
		return "invalid"
	}
}

const (
	destShift  = 6
	typeShift  = 12
	promoShift = 15
	squareMask = 0x3F
	typeMask   = 0x7
)

// NullMove is the zero move; it never comes out of move generation.
const NullMove Move = 0

// NewMove creates a move of the given type.
func NewMove(start, dest Square, t MoveType) Move {
	return Move(start) | Move(dest)<<destShift | Move(t)<<typeShift
}

// NewPromotion creates a promotion move to the given piece type.
func NewPromotion(start, dest Square, promo PieceType) Move {
	return NewMove(start, dest, Promotion) | Move(promo)<<promoShift
}

// Start returns the origin square.
func (m Move) Start() Square {
	return Square(m & squareMask)
}

// Dest returns the destination square.
func (m Move) Dest() Square {
	return Square((m >> destShift) & squareMask)
}

// Type returns the move type tag.
func (m Move) Type() MoveType {
	return MoveType((m >> typeShift) & typeMask)
}

// Promotion returns the promotion piece type, or NoPieceType for other moves.
func (m Move) Promotion() PieceType {
	if m.Type() != Promotion {
		return NoPieceType
	}
	return PieceType((m >> promoShift) & typeMask)
}

// RawPromotion returns the promotion bits whatever the move type. Moves built
// with NewMove carry zero here.
func (m Move) RawPromotion() PieceType {
	return PieceType((m >> promoShift) & typeMask)
}

// IsPawnMove reports whether the move is made by a pawn.
func (m Move) IsPawnMove() bool {
	t := m.Type()
	return t != Normal && t != Castling
}

// String returns the raw coordinate form of the move (castling shows the
// rook square). Position-aware text lives with the position.
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.Start().String() + m.Dest().String()
	if m.Type() == Promotion {
		s += string(m.Promotion().Char())
	}
	return s
}
