package board

import (
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8 (Little-Endian Rank-File Mapping).
type Bitboard uint64

// File masks
const (
	FileABB Bitboard = 0x0101010101010101
	FileBBB Bitboard = 0x0202020202020202
	FileCBB Bitboard = 0x0404040404040404
	FileDBB Bitboard = 0x0808080808080808
	FileEBB Bitboard = 0x1010101010101010
	FileFBB Bitboard = 0x2020202020202020
	FileGBB Bitboard = 0x4040404040404040
	FileHBB Bitboard = 0x8080808080808080
)

// Rank masks
const (
	Rank1BB Bitboard = 0x00000000000000FF
	Rank2BB Bitboard = 0x000000000000FF00
	Rank3BB Bitboard = 0x0000000000FF0000
	Rank4BB Bitboard = 0x00000000FF000000
	Rank5BB Bitboard = 0x000000FF00000000
	Rank6BB Bitboard = 0x0000FF0000000000
	Rank7BB Bitboard = 0x00FF000000000000
	Rank8BB Bitboard = 0xFF00000000000000
)

// Special masks
const (
	Empty    Bitboard = 0
	Universe Bitboard = 0xFFFFFFFFFFFFFFFF

	NotFileA  Bitboard = ^FileABB
	NotFileH  Bitboard = ^FileHBB
	NotFileAB Bitboard = ^(FileABB | FileBBB)
	NotFileGH Bitboard = ^(FileGBB | FileHBB)

	// Edges of the board, used when building slider occupancy masks.
	Edges Bitboard = FileABB | FileHBB | Rank1BB | Rank8BB

	LightSquares Bitboard = 0x55AA55AA55AA55AA
	DarkSquares  Bitboard = ^LightSquares
)

// FileMask returns the file mask for a given file (0-7).
var FileMask = [8]Bitboard{FileABB, FileBBB, FileCBB, FileDBB, FileEBB, FileFBB, FileGBB, FileHBB}

// RankMask returns the rank mask for a given rank (0-7).
var RankMask = [8]Bitboard{Rank1BB, Rank2BB, Rank3BB, Rank4BB, Rank5BB, Rank6BB, Rank7BB, Rank8BB}

// Diagonal returns the a1-h8 direction diagonal through sq.
func Diagonal(sq Square) Bitboard {
	const main Bitboard = 0x8040201008040201
	d := int(sq.Rank()) - int(sq.File())
	if d >= 0 {
		return main << (8 * d)
	}
	return main >> (8 * -d)
}

// AntiDiagonal returns the h1-a8 direction diagonal through sq.
func AntiDiagonal(sq Square) Bitboard {
	const anti Bitboard = 0x0102040810204080
	d := int(sq.Rank()) + int(sq.File()) - 7
	if d >= 0 {
		return anti << (8 * d)
	}
	return anti >> (8 * -d)
}

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Set sets a bit at the given square.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | (1 << sq)
}

// Clear clears a bit at the given square.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the least significant bit (lowest square index).
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// MSB returns the most significant bit (highest square index).
func (b Bitboard) MSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// MoreThanOne returns true if at least two bits are set.
func (b Bitboard) MoreThanOne() bool {
	return b&(b-1) != 0
}

// Empty returns true if no bits are set.
func (b Bitboard) Empty() bool {
	return b == 0
}

// North shifts the bitboard one rank up (toward rank 8).
func (b Bitboard) North() Bitboard {
	return b << 8
}

// South shifts the bitboard one rank down (toward rank 1).
func (b Bitboard) South() Bitboard {
	return b >> 8
}

// East shifts the bitboard one file right (toward file h).
func (b Bitboard) East() Bitboard {
	return (b << 1) & NotFileA
}

// West shifts the bitboard one file left (toward file a).
func (b Bitboard) West() Bitboard {
	return (b >> 1) & NotFileH
}

// NorthEast shifts the bitboard one square toward the h8 corner.
func (b Bitboard) NorthEast() Bitboard {
	return (b << 9) & NotFileA
}

// NorthWest shifts the bitboard one square toward the a8 corner.
func (b Bitboard) NorthWest() Bitboard {
	return (b << 7) & NotFileH
}

// SouthEast shifts the bitboard one square toward the h1 corner.
func (b Bitboard) SouthEast() Bitboard {
	return (b >> 7) & NotFileA
}

// SouthWest shifts the bitboard one square toward the a1 corner.
func (b Bitboard) SouthWest() Bitboard {
	return (b >> 9) & NotFileH
}

// Shift moves every bit one step in the given direction, dropping bits that
// would wrap around a board edge.
func (b Bitboard) Shift(d Direction) Bitboard {
	switch d {
	case North:
		return b.North()
	case South:
		return b.South()
	case East:
		return b.East()
	case West:
		return b.West()
	case NorthEast:
		return b.NorthEast()
	case NorthWest:
		return b.NorthWest()
	case SouthEast:
		return b.SouthEast()
	case SouthWest:
		return b.SouthWest()
	}
	return Empty
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := Rank8; ; rank-- {
		sb.WriteString(rank.String())
		sb.WriteByte(' ')
		for file := FileA; file <= FileH; file++ {
			if b.IsSet(NewSquare(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
		if rank == Rank1 {
			break
		}
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

// ForEach calls the function for each set square.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// Squares returns a slice of all squares that are set.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLSB())
	}
	return squares
}
