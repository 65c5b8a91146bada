package attacks

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/hailam/chesslib/internal/board"
	"github.com/hailam/chesslib/internal/xorshift"
)

// Magic bitboards for sliding piece attacks.
// Magic numbers are searched at build time from a seeded generator, so the
// exact multipliers are reproducible for a given seed but are not a fixed
// constant of the library.

// ErrMagicNotFound is returned by Build when the search budget runs out.
var ErrMagicNotFound = errors.New("attacks: no magic number found")

// maxMagicTrials bounds the candidate multipliers tried for one square.
const maxMagicTrials = 1 << 24

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   board.Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64         // Magic multiplier
	Offset uint32         // Base index into the shared attack table
	Shift  uint8          // Bits to shift right
}

// Index maps an occupancy to a slot in the shared attack table.
func (m *Magic) Index(occupied board.Bitboard) uint32 {
	return m.Offset + uint32((uint64(occupied&m.Mask)*m.Magic)>>m.Shift)
}

// relevantMask returns the squares whose occupancy can change the slider's
// attacks from sq: the empty-board attacks minus the board edges that are not
// on the slider's own file or rank.
func relevantMask(pt board.PieceType, sq board.Square) board.Bitboard {
	edges := ((board.FileABB | board.FileHBB) &^ sq.File().BB()) |
		((board.Rank1BB | board.Rank8BB) &^ sq.Rank().BB())
	return SlowAttacks(pt, sq, board.Empty) &^ edges
}

// initMagics fills magics for one slider type and writes its attack sets into
// table starting at offset. It returns the offset just past the last entry.
func initMagics(pt board.PieceType, magics *[64]Magic, table []board.Bitboard, offset uint32, rng *xorshift.Rand) (uint32, error) {
	var (
		occupancy [4096]board.Bitboard
		reference [4096]board.Bitboard
		epoch     [4096]int
		trial     int
	)

	for sq := board.A1; sq <= board.H8; sq++ {
		m := &magics[sq]
		m.Mask = relevantMask(pt, sq)
		n := m.Mask.PopCount()
		m.Shift = uint8(64 - n)
		m.Offset = offset

		// Carry-rippler walk over every subset of the mask.
		size := 0
		var subset board.Bitboard
		for {
			occupancy[size] = subset
			reference[size] = SlowAttacks(pt, sq, subset)
			size++
			subset = (subset - m.Mask) & m.Mask
			if subset == 0 {
				break
			}
		}

		found := false
		for tries := 0; tries < maxMagicTrials && !found; tries++ {
			m.Magic = rng.Sparse()
			if bits.OnesCount64((uint64(m.Mask)*m.Magic)>>56) < 6 {
				continue
			}

			// A slot is free if it was not touched in this trial, so the
			// table never needs clearing between trials.
			trial++
			found = true
			for i := 0; i < size; i++ {
				idx := m.Index(occupancy[i]) - offset
				if epoch[idx] < trial {
					epoch[idx] = trial
					table[offset+idx] = reference[i]
				} else if table[offset+idx] != reference[i] {
					found = false
					break
				}
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %s on %s", ErrMagicNotFound, pt, sq)
		}

		offset += uint32(size)
	}

	return offset, nil
}

// SlowAttacks computes slider attacks by ray casting. Used during
// initialization and as the reference in tests.
func SlowAttacks(pt board.PieceType, sq board.Square, occupied board.Bitboard) board.Bitboard {
	var dirs []board.Direction
	switch pt {
	case board.Bishop:
		dirs = bishopDirections[:]
	case board.Rook:
		dirs = rookDirections[:]
	case board.Queen:
		return SlowAttacks(board.Bishop, sq, occupied) | SlowAttacks(board.Rook, sq, occupied)
	default:
		return board.Empty
	}

	var attacks board.Bitboard
	for _, d := range dirs {
		bb := board.SquareBB(sq)
		for {
			bb = bb.Shift(d)
			if bb == 0 {
				break
			}
			attacks |= bb
			if bb&occupied != 0 {
				break
			}
		}
	}
	return attacks
}

var (
	bishopDirections = [4]board.Direction{board.NorthEast, board.NorthWest, board.SouthEast, board.SouthWest}
	rookDirections   = [4]board.Direction{board.North, board.South, board.East, board.West}
)

// tableSize returns the number of shared-table entries both sliders need.
func tableSize() int {
	n := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		n += 1 << relevantMask(board.Bishop, sq).PopCount()
		n += 1 << relevantMask(board.Rook, sq).PopCount()
	}
	return n
}
