// Package board holds the value types shared by every layer of the library:
// squares, files, ranks, colors, pieces, directions, bitboards, castling
// rights and packed moves.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File is a board column, 0 for the a-file through 7 for the h-file.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
	NoFile File = 8
)

// IsValid reports whether f names one of the eight files.
func (f File) IsValid() bool {
	return f < NoFile
}

func (f File) String() string {
	if !f.IsValid() {
		return "-"
	}
	return string(rune('a' + f))
}

// BB returns the bitboard of every square on the file.
func (f File) BB() Bitboard {
	return FileMask[f]
}

// Rank is a board row, 0 for the first rank through 7 for the eighth.
type Rank uint8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	NoRank Rank = 8
)

// IsValid reports whether r names one of the eight ranks.
func (r Rank) IsValid() bool {
	return r < NoRank
}

func (r Rank) String() string {
	if !r.IsValid() {
		return "-"
	}
	return string(rune('1' + r))
}

// BB returns the bitboard of every square on the rank.
func (r Rank) BB() Bitboard {
	return RankMask[r]
}

// Relative returns the rank as seen from c's side of the board.
func (r Rank) Relative(c Color) Rank {
	if c == White {
		return r
	}
	return Rank8 - r
}

// File returns the file (column) of the square.
func (sq Square) File() File {
	return File(sq & 7)
}

// Rank returns the rank (row) of the square.
func (sq Square) Rank() Rank {
	return Rank(sq >> 3)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return sq.File().String() + sq.Rank().String()
}

// NewSquare creates a square from file and rank.
func NewSquare(file File, rank Rank) Square {
	return Square(rank)<<3 | Square(file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := File(s[0] - 'a')
	rank := Rank(s[1] - '1')

	if !file.IsValid() || !rank.IsValid() {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically.
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// Relative returns the square as seen from c's side: unchanged for White,
// mirrored for Black.
func (sq Square) Relative(c Color) Square {
	if c == White {
		return sq
	}
	return sq.Mirror()
}

// RelativeRank returns the rank from a given color's perspective.
// For White, Rank1 is the 1st rank; for Black, Rank1 is the 8th rank.
func (sq Square) RelativeRank(c Color) Rank {
	return sq.Rank().Relative(c)
}

// Add offsets the square by a direction without any edge checks.
func (sq Square) Add(d Direction) Square {
	return Square(int8(sq) + int8(d))
}
