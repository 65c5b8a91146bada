package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteShort CastlingRights = 1 << iota // K
	WhiteLong                             // Q
	BlackShort                            // k
	BlackLong                             // q

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteShort | WhiteLong | BlackShort | BlackLong
)

var castlingFEN = [16]string{
	"-", "K", "Q", "KQ", "k", "Kk", "Qk", "KQk",
	"q", "Kq", "Qq", "KQq", "kq", "Kkq", "Qkq", "KQkq",
}

// ShortCastling returns the king-side right of color c.
func ShortCastling(c Color) CastlingRights {
	return WhiteShort << (2 * c)
}

// LongCastling returns the queen-side right of color c.
func LongCastling(c Color) CastlingRights {
	return WhiteLong << (2 * c)
}

// CastlingFor returns both rights of color c.
func CastlingFor(c Color) CastlingRights {
	return ShortCastling(c) | LongCastling(c)
}

// String returns the standard FEN castling field ("KQkq", "-", ...).
func (cr CastlingRights) String() string {
	return castlingFEN[cr&AllCastling]
}

// Has returns true if every right in other is present.
func (cr CastlingRights) Has(other CastlingRights) bool {
	return cr&other == other
}

// Color returns the side owning a single right.
func (cr CastlingRights) Color() Color {
	if cr&(WhiteShort|WhiteLong) != 0 {
		return White
	}
	return Black
}

// IsShort reports whether the single right is a king-side right.
func (cr CastlingRights) IsShort() bool {
	return cr&(WhiteShort|BlackShort) != 0
}
