package position

import (
	"github.com/hailam/chesslib/internal/board"
	"github.com/hailam/chesslib/internal/xorshift"
)

// DefaultKeySeed seeds the key set every Position uses unless told otherwise.
const DefaultKeySeed uint64 = 999

// Keys is a Zobrist key set. It is read-only after NewKeys returns.
type Keys struct {
	piece     [board.NoPiece][64]uint64
	enPassant [board.NoSquare + 1]uint64 // NoSquare maps to zero
	castling  [16]uint64
	side      uint64
}

var defaultKeys = NewKeys(DefaultKeySeed)

// NewKeys draws a full key set from a fixed-seed generator.
func NewKeys(seed uint64) *Keys {
	rng := xorshift.New(seed)
	k := &Keys{}

	for p := board.WhitePawn; p < board.NoPiece; p++ {
		for sq := board.A1; sq <= board.H8; sq++ {
			k.piece[p][sq] = rng.Uint64()
		}
	}
	for i := range k.castling {
		k.castling[i] = rng.Uint64()
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		k.enPassant[sq] = rng.Uint64()
	}
	k.side = rng.Uint64()

	return k
}

// Piece returns the key of piece p standing on sq.
func (k *Keys) Piece(p board.Piece, sq board.Square) uint64 {
	return k.piece[p][sq]
}

// EnPassant returns the key of an en passant square; NoSquare yields zero.
func (k *Keys) EnPassant(sq board.Square) uint64 {
	return k.enPassant[sq]
}

// Castling returns the key of a castling rights combination.
func (k *Keys) Castling(cr board.CastlingRights) uint64 {
	return k.castling[cr]
}

// Side returns the key XORed in when Black is to move.
func (k *Keys) Side() uint64 {
	return k.side
}

// ComputeKey recomputes the Zobrist key from scratch. The incrementally
// maintained Key must always equal it.
func (p *Position) ComputeKey() uint64 {
	var key uint64
	for sq := board.A1; sq <= board.H8; sq++ {
		if pc := p.squares[sq]; pc != board.NoPiece {
			key ^= p.keys.Piece(pc, sq)
		}
	}
	if p.sideToMove == board.Black {
		key ^= p.keys.Side()
	}
	st := p.st()
	key ^= p.keys.Castling(st.Castling)
	key ^= p.keys.EnPassant(st.EnPassant)
	return key
}
