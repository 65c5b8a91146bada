// Package position implements the chess position state machine: board
// representation, FEN input and output, make/undo with incremental Zobrist
// hashing, legality checks and draw detection.
//
// A Position is a single mutable value with no internal locking. Attack
// tables and Zobrist keys are shared read-only between positions.
package position

import (
	"fmt"
	"strings"

	"github.com/hailam/chesslib/internal/attacks"
	"github.com/hailam/chesslib/internal/board"
)

const (
	// Rule50Plies is the half-move count that makes the fifty-move rule apply.
	Rule50Plies = 100

	// RepetitionsToDraw is the number of earlier occurrences of the current
	// position that InThreeFoldRepetition requires.
	RepetitionsToDraw = 3

	repetitionTableSize = 1 << 12
	repetitionMask      = repetitionTableSize - 1
)

// State is the per-ply snapshot pushed by MakeMove and popped by UndoMove.
type State struct {
	KingSquare board.Square         // king of the side to move
	Castling   board.CastlingRights // rights still available
	Rule50     int                  // half-moves since the last capture or pawn move
	EnPassant  board.Square         // NoSquare unless a capture is possible
	Captured   board.Piece          // piece taken by LastMove
	Checkers   board.Bitboard       // enemy pieces giving check
	PinMask    board.Bitboard       // pin lines from the king to each pinning slider
	Repetition int                  // earlier occurrences of this position
	Key        uint64               // Zobrist key
	Ply        int                  // plies since the FEN was loaded
	LastMove   board.Move           // move that produced this state
}

// Position represents a complete chess position.
type Position struct {
	tables *attacks.Tables
	keys   *Keys

	occupied board.Bitboard
	bySide   [2]board.Bitboard
	byType   [board.NoPieceType]board.Bitboard
	byPiece  [board.NoPiece]board.Bitboard
	squares  [64]board.Piece
	counts   [board.NoPiece]int

	sideToMove board.Color
	numMoves   int // half-moves since the game start, derived from the FEN move number
	chess960   bool

	// Castling metadata, indexed by the castling rook's square.
	castlingMask     [64]board.CastlingRights
	castlingKingDest [64]board.Square
	castlingRookDest [64]board.Square
	castlingPath     [64]board.Bitboard
	castlingKingPath [64]board.Bitboard
	castlingMoves    [16]board.Move

	repetitions [repetitionTableSize]uint16

	// states[len-1] is the current state; the one below it is its predecessor.
	states []State
}

// New returns an empty position reading the given tables. Load a FEN before
// using it.
func New(t *attacks.Tables) *Position {
	p := &Position{
		tables: t,
		keys:   defaultKeys,
		states: make([]State, 1, 256),
	}
	for i := range p.squares {
		p.squares[i] = board.NoPiece
	}
	return p
}

// FromFEN builds a position on the shared attack tables.
func FromFEN(fen string) (*Position, error) {
	p := New(attacks.Shared())
	if err := p.SetFEN(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// Start returns the standard starting position.
func Start() *Position {
	p, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Clone returns an independent deep copy, including the undo history.
func (p *Position) Clone() *Position {
	c := *p
	c.states = make([]State, len(p.states), cap(p.states))
	copy(c.states, p.states)
	return &c
}

func (p *Position) st() *State {
	return &p.states[len(p.states)-1]
}

// Tables returns the attack tables the position reads.
func (p *Position) Tables() *attacks.Tables {
	return p.tables
}

// State returns a copy of the current snapshot.
func (p *Position) State() State {
	return *p.st()
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() board.Color {
	return p.sideToMove
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq board.Square) board.Piece {
	return p.squares[sq]
}

// Occupied returns every occupied square.
func (p *Position) Occupied() board.Bitboard {
	return p.occupied
}

// BySide returns the squares occupied by color c.
func (p *Position) BySide(c board.Color) board.Bitboard {
	return p.bySide[c]
}

// ByType returns the squares holding piece type pt of either color.
func (p *Position) ByType(pt board.PieceType) board.Bitboard {
	return p.byType[pt]
}

// ByPiece returns the squares holding piece pc.
func (p *Position) ByPiece(pc board.Piece) board.Bitboard {
	return p.byPiece[pc]
}

// Pieces returns the squares holding c's pieces of any of the given types.
func (p *Position) Pieces(c board.Color, types ...board.PieceType) board.Bitboard {
	var bb board.Bitboard
	for _, pt := range types {
		bb |= p.byType[pt]
	}
	return bb & p.bySide[c]
}

// PieceCount returns how many of pc are on the board.
func (p *Position) PieceCount(pc board.Piece) int {
	return p.counts[pc]
}

// KingSquare returns the king square of color c.
func (p *Position) KingSquare(c board.Color) board.Square {
	return p.byPiece[board.NewPiece(board.King, c)].LSB()
}

// Key returns the Zobrist key of the current position.
func (p *Position) Key() uint64 {
	return p.st().Key
}

// Checkers returns the enemy pieces giving check.
func (p *Position) Checkers() board.Bitboard {
	return p.st().Checkers
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.st().Checkers != 0
}

// PinMask returns the pin lines of the side to move.
func (p *Position) PinMask() board.Bitboard {
	return p.st().PinMask
}

// EnPassant returns the en passant target square or NoSquare.
func (p *Position) EnPassant() board.Square {
	return p.st().EnPassant
}

// CastlingRights returns the rights still available.
func (p *Position) CastlingRights() board.CastlingRights {
	return p.st().Castling
}

// CanCastle reports whether all of the given rights are still available.
func (p *Position) CanCastle(cr board.CastlingRights) bool {
	return p.st().Castling&cr == cr
}

// CastlingMove returns the encoded move for a single castling right, or
// NullMove if the right was not granted at load time.
func (p *Position) CastlingMove(cr board.CastlingRights) board.Move {
	return p.castlingMoves[cr]
}

// Rule50 returns the half-move clock.
func (p *Position) Rule50() int {
	return p.st().Rule50
}

// Ply returns the number of moves made since the FEN was loaded.
func (p *Position) Ply() int {
	return p.st().Ply
}

// LastMove returns the move that produced the current state, or NullMove.
func (p *Position) LastMove() board.Move {
	return p.st().LastMove
}

// FullMoveNumber returns the FEN full-move counter.
func (p *Position) FullMoveNumber() int {
	return p.numMoves/2 + 1
}

// IsChess960 reports whether any castling right uses non-standard squares.
func (p *Position) IsChess960() bool {
	return p.chess960
}

// History returns the moves made since the FEN was loaded, oldest first.
func (p *Position) History() []board.Move {
	moves := make([]board.Move, 0, len(p.states)-1)
	for i := 1; i < len(p.states); i++ {
		moves = append(moves, p.states[i].LastMove)
	}
	return moves
}

// addPiece places a piece on an empty square and updates the key.
func (p *Position) addPiece(pc board.Piece, sq board.Square) {
	bb := board.SquareBB(sq)
	p.occupied |= bb
	p.bySide[pc.Color()] |= bb
	p.byType[pc.Type()] |= bb
	p.byPiece[pc] |= bb
	p.squares[sq] = pc
	p.counts[pc]++
	p.st().Key ^= p.keys.Piece(pc, sq)
}

// removePiece clears an occupied square and returns what stood there.
func (p *Position) removePiece(sq board.Square) board.Piece {
	pc := p.squares[sq]
	bb := board.SquareBB(sq)
	p.occupied ^= bb
	p.bySide[pc.Color()] ^= bb
	p.byType[pc.Type()] ^= bb
	p.byPiece[pc] ^= bb
	p.squares[sq] = board.NoPiece
	p.counts[pc]--
	p.st().Key ^= p.keys.Piece(pc, sq)
	return pc
}

// movePiece moves a piece to an empty square.
func (p *Position) movePiece(from, to board.Square) {
	pc := p.squares[from]
	bb := board.SquareBB(from) | board.SquareBB(to)
	p.occupied ^= bb
	p.bySide[pc.Color()] ^= bb
	p.byType[pc.Type()] ^= bb
	p.byPiece[pc] ^= bb
	p.squares[from] = board.NoPiece
	p.squares[to] = pc
	p.st().Key ^= p.keys.Piece(pc, from) ^ p.keys.Piece(pc, to)
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := board.Rank8; ; rank-- {
		fmt.Fprintf(&sb, "%s  ", rank)
		for file := board.FileA; file <= board.FileH; file++ {
			pc := p.squares[board.NewSquare(file, rank)]
			if pc == board.NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(pc.String() + " ")
			}
		}
		sb.WriteByte('\n')
		if rank == board.Rank1 {
			break
		}
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "FEN: %s\n", p.FEN())
	fmt.Fprintf(&sb, "Key: %016x\n", p.Key())
	if p.InCheck() {
		fmt.Fprintf(&sb, "Checkers: %s\n", strings.Join(squareNames(p.Checkers()), " "))
	}
	return sb.String()
}

func squareNames(bb board.Bitboard) []string {
	names := make([]string, 0, bb.PopCount())
	for bb != 0 {
		names = append(names, bb.PopLSB().String())
	}
	return names
}
