// Package movegen enumerates legal moves directly, using the check and pin
// masks the position keeps up to date, so no move has to be made and taken
// back to test it.
package movegen

import (
	"github.com/hailam/chesslib/internal/board"
	"github.com/hailam/chesslib/internal/position"
)

// Sink receives generated moves. Returning false stops generation.
type Sink func(board.Move) bool

type generator struct {
	pos  *position.Position
	sink Sink

	us, them     board.Color
	ksq          board.Square
	occupied     board.Bitboard
	enemy        board.Bitboard
	empty        board.Bitboard
	enemyOrEmpty board.Bitboard
}

// Generate emits every legal move of the side to move into sink: king moves,
// castling, pawns, knights, rooks and queens, then bishops and queens. It
// reports whether generation ran to completion; false means the sink stopped
// it.
func Generate(pos *position.Position, sink Sink) bool {
	us := pos.SideToMove()
	them := us.Other()
	occ := pos.Occupied()
	g := generator{
		pos:          pos,
		sink:         sink,
		us:           us,
		them:         them,
		ksq:          pos.KingSquare(us),
		occupied:     occ,
		enemy:        pos.BySide(them),
		empty:        ^occ,
		enemyOrEmpty: ^pos.BySide(us),
	}
	return g.run()
}

// HasAnyLegalMove reports whether the side to move has at least one legal
// move, stopping at the first one found.
func HasAnyLegalMove(pos *position.Position) bool {
	return !Generate(pos, func(board.Move) bool { return false })
}

// Legal collects every legal move into a new list.
func Legal(pos *position.Position) *MoveList {
	ml := NewMoveList()
	Generate(pos, func(m board.Move) bool {
		ml.Add(m)
		return true
	})
	return ml
}

func (g *generator) run() bool {
	pos := g.pos
	t := pos.Tables()

	// King moves. The king leaves the occupancy so sliders see through it.
	noKing := g.occupied ^ board.SquareBB(g.ksq)
	for targets := t.KingAttacks(g.ksq) & g.enemyOrEmpty; targets != 0; {
		dest := targets.PopLSB()
		if pos.AttackersBy(g.them, dest, noKing) == 0 {
			if !g.sink(board.NewMove(g.ksq, dest, board.Normal)) {
				return false
			}
		}
	}

	checkers := pos.Checkers()
	if checkers.MoreThanOne() {
		return true
	}

	for _, right := range [2]board.CastlingRights{board.ShortCastling(g.us), board.LongCastling(g.us)} {
		if !pos.CanCastle(right) {
			continue
		}
		if m := pos.CastlingMove(right); pos.IsLegalCastling(m) && !g.sink(m) {
			return false
		}
	}

	pin := pos.PinMask()
	pinDiag := pin & t.PseudoAttacks(board.Bishop, g.ksq)
	pinOrth := pin & t.PseudoAttacks(board.Rook, g.ksq)

	checkMask := board.Universe
	if checkers != 0 {
		checkMask = t.PathBetween(g.ksq, checkers.LSB())
	}

	if !g.pawnMoves(pinDiag, pinOrth, checkMask) {
		return false
	}

	target := checkMask & g.enemyOrEmpty

	knights := pos.Pieces(g.us, board.Knight) &^ pin
	if !g.pieceMoves(board.Knight, knights, target) {
		return false
	}

	rookQueen := pos.Pieces(g.us, board.Rook, board.Queen)
	if !g.pieceMoves(board.Rook, rookQueen&pinOrth, target&pinOrth) ||
		!g.pieceMoves(board.Rook, rookQueen&^pin, target) {
		return false
	}

	bishopQueen := pos.Pieces(g.us, board.Bishop, board.Queen)
	if !g.pieceMoves(board.Bishop, bishopQueen&pinDiag, target&pinDiag) ||
		!g.pieceMoves(board.Bishop, bishopQueen&^pin, target) {
		return false
	}
	return true
}

// pieceMoves emits Normal moves for each piece in pieces, moving like pt, to
// the squares in target.
func (g *generator) pieceMoves(pt board.PieceType, pieces, target board.Bitboard) bool {
	t := g.pos.Tables()
	for pieces != 0 {
		start := pieces.PopLSB()
		for dests := t.Attacks(pt, start, g.occupied) & target; dests != 0; {
			if !g.sink(board.NewMove(start, dests.PopLSB(), board.Normal)) {
				return false
			}
		}
	}
	return true
}

func (g *generator) pawnMoves(pinDiag, pinOrth, checkMask board.Bitboard) bool {
	pos := g.pos
	t := pos.Tables()
	pawns := pos.Pieces(g.us, board.Pawn)

	up := board.Forward(g.us)
	// Captures toward the a-file for White travel along an anti-diagonal
	// (a8-h1 direction); Black's mirror image is the capture toward the h-file.
	antiDir, mainDir := board.NorthWest, board.NorthEast
	if g.us == board.Black {
		antiDir, mainDir = board.SouthEast, board.SouthWest
	}

	// Orthogonally pinned pawns never capture; pawns pinned along the king's
	// rank cannot push either.
	capturers := pawns &^ pinOrth
	pushers := pawns &^ pinDiag &^ (pinOrth & g.ksq.Rank().BB())

	captureTargets := g.enemy & checkMask
	antiCaps := (capturers &^ (pinDiag & board.Diagonal(g.ksq))).Shift(antiDir) & captureTargets
	mainCaps := (capturers &^ (pinDiag & board.AntiDiagonal(g.ksq))).Shift(mainDir) & captureTargets

	push1 := pushers.Shift(up) & g.empty
	push2 := (push1 & board.Rank3.Relative(g.us).BB()).Shift(up) & g.empty & checkMask
	push1 &= checkMask

	if ep := pos.EnPassant(); ep != board.NoSquare {
		for attackers := capturers & t.PawnAttacks(g.them, ep); attackers != 0; {
			m := board.NewMove(attackers.PopLSB(), ep, board.EnPassant)
			if pos.IsLegalEnPassant(m) && !g.sink(m) {
				return false
			}
		}
	}

	lastRank := board.Rank8.Relative(g.us).BB()
	if !g.promotions(antiCaps&lastRank, antiDir) ||
		!g.promotions(mainCaps&lastRank, mainDir) ||
		!g.promotions(push1&lastRank, up) {
		return false
	}

	if !g.pawnTargets(antiCaps&^lastRank, antiDir, board.PawnMove) ||
		!g.pawnTargets(mainCaps&^lastRank, mainDir, board.PawnMove) ||
		!g.pawnTargets(push1&^lastRank, up, board.PawnMove) ||
		!g.pawnTargets(push2, 2*up, board.PawnPushTwice) {
		return false
	}
	return true
}

// pawnTargets emits one move per destination, the pawn standing one step of
// dir behind it.
func (g *generator) pawnTargets(dests board.Bitboard, dir board.Direction, mt board.MoveType) bool {
	for dests != 0 {
		dest := dests.PopLSB()
		if !g.sink(board.NewMove(dest.Add(-dir), dest, mt)) {
			return false
		}
	}
	return true
}

var promotionPieces = [4]board.PieceType{board.Knight, board.Bishop, board.Rook, board.Queen}

func (g *generator) promotions(dests board.Bitboard, dir board.Direction) bool {
	for dests != 0 {
		dest := dests.PopLSB()
		start := dest.Add(-dir)
		for _, pt := range promotionPieces {
			if !g.sink(board.NewPromotion(start, dest, pt)) {
				return false
			}
		}
	}
	return true
}
