// Package attacks builds the precomputed attack tables: pseudo attacks for
// every piece type, magic-bitboard slider lookups and the path/line geometry
// used for pins and checks. A Tables value is immutable once built and may be
// shared between goroutines.
package attacks

import (
	"sync"

	"github.com/hailam/chesslib/internal/board"
	"github.com/hailam/chesslib/internal/xorshift"
)

// DefaultSeed seeds the magic search for Shared.
const DefaultSeed uint64 = 0x2C3A9F17D04B6E55

// Tables holds every precomputed attack and geometry bitboard.
type Tables struct {
	pseudo [board.NoPieceType][64]board.Bitboard
	pawn   [2][64]board.Bitboard

	bishopMagics [64]Magic
	rookMagics   [64]Magic
	sliders      []board.Bitboard // shared by rook and bishop entries

	path [64][64]board.Bitboard
	line [64][64]board.Bitboard
}

var shared = sync.OnceValue(func() *Tables {
	t, err := Build(DefaultSeed)
	if err != nil {
		panic(err)
	}
	return t
})

// Shared returns the process-wide tables, building them on first use.
func Shared() *Tables {
	return shared()
}

// Build constructs a fresh set of tables. The seed drives the magic number
// search; different seeds give different multipliers and identical attacks.
func Build(seed uint64) (*Tables, error) {
	t := &Tables{sliders: make([]board.Bitboard, tableSize())}

	initStepAttacks(t)

	rng := xorshift.New(seed)
	offset, err := initMagics(board.Bishop, &t.bishopMagics, t.sliders, 0, rng)
	if err != nil {
		return nil, err
	}
	if _, err := initMagics(board.Rook, &t.rookMagics, t.sliders, offset, rng); err != nil {
		return nil, err
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		t.pseudo[board.Bishop][sq] = t.BishopAttacks(sq, board.Empty)
		t.pseudo[board.Rook][sq] = t.RookAttacks(sq, board.Empty)
		t.pseudo[board.Queen][sq] = t.pseudo[board.Bishop][sq] | t.pseudo[board.Rook][sq]
	}

	initGeometry(t)
	return t, nil
}

func initStepAttacks(t *Tables) {
	for sq := board.A1; sq <= board.H8; sq++ {
		bb := board.SquareBB(sq)

		var knight board.Bitboard
		knight |= (bb << 17) & board.NotFileA  // NNE
		knight |= (bb << 15) & board.NotFileH  // NNW
		knight |= (bb >> 17) & board.NotFileH  // SSW
		knight |= (bb >> 15) & board.NotFileA  // SSE
		knight |= (bb << 10) & board.NotFileAB // ENE
		knight |= (bb << 6) & board.NotFileGH  // WNW
		knight |= (bb >> 10) & board.NotFileGH // WSW
		knight |= (bb >> 6) & board.NotFileAB  // ESE
		t.pseudo[board.Knight][sq] = knight

		t.pseudo[board.King][sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		t.pawn[board.White][sq] = bb.NorthEast() | bb.NorthWest()
		t.pawn[board.Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// PseudoAttacks returns the attacks of pt from sq on an empty board.
// Pawn attacks depend on color; use PawnAttacks for them.
func (t *Tables) PseudoAttacks(pt board.PieceType, sq board.Square) board.Bitboard {
	return t.pseudo[pt][sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func (t *Tables) PawnAttacks(c board.Color, sq board.Square) board.Bitboard {
	return t.pawn[c][sq]
}

// KnightAttacks returns the knight attack bitboard for a square.
func (t *Tables) KnightAttacks(sq board.Square) board.Bitboard {
	return t.pseudo[board.Knight][sq]
}

// KingAttacks returns the king attack bitboard for a square.
func (t *Tables) KingAttacks(sq board.Square) board.Bitboard {
	return t.pseudo[board.King][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func (t *Tables) BishopAttacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	return t.sliders[t.bishopMagics[sq].Index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func (t *Tables) RookAttacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	return t.sliders[t.rookMagics[sq].Index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func (t *Tables) QueenAttacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	return t.BishopAttacks(sq, occupied) | t.RookAttacks(sq, occupied)
}

// Attacks returns the attacks of a non-pawn piece type under the given
// occupancy. Pawns have no color here and yield an empty set.
func (t *Tables) Attacks(pt board.PieceType, sq board.Square, occupied board.Bitboard) board.Bitboard {
	switch pt {
	case board.Bishop:
		return t.BishopAttacks(sq, occupied)
	case board.Rook:
		return t.RookAttacks(sq, occupied)
	case board.Queen:
		return t.QueenAttacks(sq, occupied)
	case board.Knight, board.King:
		return t.pseudo[pt][sq]
	}
	return board.Empty
}

// Magic returns the magic entry of a slider type on a square.
func (t *Tables) Magic(pt board.PieceType, sq board.Square) Magic {
	if pt == board.Bishop {
		return t.bishopMagics[sq]
	}
	return t.rookMagics[sq]
}
