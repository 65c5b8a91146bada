package position

import "github.com/hailam/chesslib/internal/board"

// AttackersBy returns the pieces of color c attacking sq given occupancy occ.
func (p *Position) AttackersBy(c board.Color, sq board.Square, occ board.Bitboard) board.Bitboard {
	return p.attackers(sq, occ, p.byPiece[board.NewPiece(board.Pawn, c)]&p.tables.PawnAttacks(c.Other(), sq)) & p.bySide[c]
}

// Attackers returns the pieces of both colors attacking sq given occupancy occ.
func (p *Position) Attackers(sq board.Square, occ board.Bitboard) board.Bitboard {
	pawns := p.byPiece[board.WhitePawn]&p.tables.PawnAttacks(board.Black, sq) |
		p.byPiece[board.BlackPawn]&p.tables.PawnAttacks(board.White, sq)
	return p.attackers(sq, occ, pawns)
}

func (p *Position) attackers(sq board.Square, occ, pawns board.Bitboard) board.Bitboard {
	t := p.tables
	queens := p.byType[board.Queen]
	return pawns |
		t.KnightAttacks(sq)&p.byType[board.Knight] |
		t.KingAttacks(sq)&p.byType[board.King] |
		t.BishopAttacks(sq, occ)&(p.byType[board.Bishop]|queens) |
		t.RookAttacks(sq, occ)&(p.byType[board.Rook]|queens)
}

// pinMask returns the union of pin lines from target to every slider of
// attackSide that has exactly one piece between it and target. Each line
// includes the slider.
func (p *Position) pinMask(attackSide board.Color, target board.Square) board.Bitboard {
	t := p.tables
	queens := p.byType[board.Queen]
	snipers := (t.PseudoAttacks(board.Bishop, target)&(p.byType[board.Bishop]|queens) |
		t.PseudoAttacks(board.Rook, target)&(p.byType[board.Rook]|queens)) & p.bySide[attackSide]
	occ := p.occupied ^ snipers

	var pins board.Bitboard
	for snipers != 0 {
		path := t.PathBetween(target, snipers.PopLSB())
		if blockers := path & occ; blockers != 0 && !blockers.MoreThanOne() {
			pins |= path
		}
	}
	return pins
}

// IsPseudoLegal reports whether m is a well-formed move for the side to move
// in the current position, ignoring whether it leaves the king in check. It
// accepts any 32-bit value, so it can screen moves from untrusted sources.
func (p *Position) IsPseudoLegal(m board.Move) bool {
	us := p.sideToMove
	them := us.Other()
	start, dest := m.Start(), m.Dest()
	st := p.st()

	pc := p.squares[start]
	if pc == board.NoPiece || pc.Color() != us {
		return false
	}
	if m.Type() > board.EnPassant {
		return false
	}
	if m.RawPromotion() != 0 && m.Type() != board.Promotion {
		return false
	}
	pt := pc.Type()
	if (pt == board.Pawn) != m.IsPawnMove() {
		return false
	}

	destBB := board.SquareBB(dest)
	forward := board.Forward(us)

	switch m.Type() {
	case board.Normal:
		return p.tables.Attacks(pt, start, p.occupied)&^p.bySide[us]&destBB != 0

	case board.Castling:
		if pt != board.King {
			return false
		}
		right := board.LongCastling(us)
		if start < dest {
			right = board.ShortCastling(us)
		}
		return st.Castling&right != 0 && p.castlingMoves[right] == m

	case board.EnPassant:
		return dest == st.EnPassant && p.tables.PawnAttacks(us, start)&destBB&^p.occupied != 0

	case board.PawnPushTwice:
		mid := start.Add(forward)
		return start.RelativeRank(us) == board.Rank2 &&
			dest == mid.Add(forward) &&
			p.squares[mid] == board.NoPiece &&
			p.squares[dest] == board.NoPiece

	case board.Promotion:
		promo := m.Promotion()
		if promo < board.Knight || promo > board.Queen || dest.RelativeRank(us) != board.Rank8 {
			return false
		}

	case board.PawnMove:
		if dest.RelativeRank(us) == board.Rank8 {
			return false
		}
	}

	// Single pushes and captures, with or without promotion.
	if start.File() == dest.File() {
		return dest == start.Add(forward) && p.squares[dest] == board.NoPiece
	}
	return p.tables.PawnAttacks(us, start)&destBB&p.bySide[them] != 0
}

// IsLegal reports whether a pseudo-legal move leaves the mover's king safe.
func (p *Position) IsLegal(m board.Move) bool {
	st := p.st()
	start, dest := m.Start(), m.Dest()
	ksq := st.KingSquare

	switch m.Type() {
	case board.Castling:
		return p.IsLegalCastling(m)
	case board.EnPassant:
		return p.IsLegalEnPassant(m)
	}

	if start == ksq {
		occ := p.occupied ^ board.SquareBB(ksq)
		return p.AttackersBy(p.sideToMove.Other(), dest, occ) == 0
	}

	if st.Checkers != 0 {
		if st.Checkers.MoreThanOne() {
			return false
		}
		if p.tables.PathBetween(ksq, st.Checkers.LSB())&board.SquareBB(dest) == 0 {
			return false
		}
	}

	if st.PinMask&board.SquareBB(start) != 0 {
		return p.tables.Aligned(ksq, start, dest)
	}
	return true
}

// IsLegalCastling reports whether a castling move granted at load time can be
// played now: not in check, nothing between king and rook and their
// destinations, no attacked square on the king's path, rook not pinned.
func (p *Position) IsLegalCastling(m board.Move) bool {
	st := p.st()
	dest := m.Dest()
	if st.Checkers != 0 || p.castlingPath[dest]&p.occupied != 0 {
		return false
	}

	them := p.sideToMove.Other()
	for path := p.castlingKingPath[dest]; path != 0; {
		if p.AttackersBy(them, path.PopLSB(), p.occupied) != 0 {
			return false
		}
	}
	return st.PinMask&board.SquareBB(dest) == 0
}

// IsLegalEnPassant reports whether an en passant capture leaves the king
// safe, taking into account both pawns leaving their squares.
func (p *Position) IsLegalEnPassant(m board.Move) bool {
	start, dest := m.Start(), m.Dest()
	captured := board.SquareBB(dest.Add(-board.Forward(p.sideToMove)))
	occ := p.occupied ^ board.SquareBB(start) ^ board.SquareBB(dest) ^ captured
	return p.AttackersBy(p.sideToMove.Other(), p.st().KingSquare, occ)&^captured == 0
}
