package position

import (
	"fmt"
	"log"

	"github.com/hailam/chesslib/internal/board"
)

// DebugValidation makes MakeMove and UndoMove check every invariant after
// each call, logging and panicking on the first violation. It is meant for
// tests and debugging sessions; it slows move making down considerably.
var DebugValidation = false

// Validate checks the internal consistency of the position: the bitboards
// agree with the square array, each side has one king, no pawn stands on a
// back rank, the side not to move is not in check and the incremental state
// matches a fresh computation.
func (p *Position) Validate() error {
	var occ board.Bitboard
	var bySide [2]board.Bitboard
	var byType [board.NoPieceType]board.Bitboard
	var counts [board.NoPiece]int

	for sq := board.A1; sq <= board.H8; sq++ {
		pc := p.squares[sq]
		if pc == board.NoPiece {
			continue
		}
		bb := board.SquareBB(sq)
		if p.byPiece[pc]&bb == 0 {
			return fmt.Errorf("%s on %s missing from its piece bitboard", pc, sq)
		}
		occ |= bb
		bySide[pc.Color()] |= bb
		byType[pc.Type()] |= bb
		counts[pc]++
	}

	if occ != p.occupied {
		return fmt.Errorf("occupancy %x, squares say %x", uint64(p.occupied), uint64(occ))
	}
	if bySide != p.bySide {
		return fmt.Errorf("side bitboards disagree with squares")
	}
	if byType != p.byType {
		return fmt.Errorf("type bitboards disagree with squares")
	}
	if counts != p.counts {
		return fmt.Errorf("piece counts disagree with squares")
	}
	for pc := board.WhitePawn; pc < board.NoPiece; pc++ {
		if p.byPiece[pc].PopCount() != counts[pc] {
			return fmt.Errorf("%s bitboard holds %d pieces, count is %d", pc, p.byPiece[pc].PopCount(), counts[pc])
		}
	}

	if counts[board.WhiteKing] != 1 || counts[board.BlackKing] != 1 {
		return illegal("Invalid number of kings")
	}
	if p.byType[board.Pawn]&(board.Rank1BB|board.Rank8BB) != 0 {
		return illegal("Pawn on first or last rank")
	}

	us := p.sideToMove
	them := us.Other()
	if p.AttackersBy(us, p.KingSquare(them), p.occupied) != 0 {
		return illegal("King not in the side to move is under attack")
	}

	st := p.st()
	if st.KingSquare != p.KingSquare(us) {
		return fmt.Errorf("state king square %s, king is on %s", st.KingSquare, p.KingSquare(us))
	}
	if want := p.AttackersBy(them, st.KingSquare, p.occupied); st.Checkers != want {
		return fmt.Errorf("checkers %x, want %x", uint64(st.Checkers), uint64(want))
	}
	if want := p.pinMask(them, st.KingSquare); st.PinMask != want {
		return fmt.Errorf("pin mask %x, want %x", uint64(st.PinMask), uint64(want))
	}
	if st.EnPassant != board.NoSquare && !p.canCaptureEnPassant(st.EnPassant) {
		return fmt.Errorf("en passant square %s has no legal capture", st.EnPassant)
	}
	if want := p.ComputeKey(); st.Key != want {
		return fmt.Errorf("key %016x, want %016x", st.Key, want)
	}
	if st.Ply != len(p.states)-1 {
		return fmt.Errorf("ply %d with %d states", st.Ply, len(p.states))
	}
	return nil
}

func (p *Position) mustValidate(op string) {
	if err := p.Validate(); err != nil {
		log.Printf("position: %s left a corrupt position: %v\n%s", op, err, p)
		panic(fmt.Sprintf("position: %s: %v", op, err))
	}
}
