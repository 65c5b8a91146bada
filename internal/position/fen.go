package position

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hailam/chesslib/internal/board"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// SetFEN loads a position. The half-move clock and full-move number are
// optional and default to 0 and 1. On error the receiver is left unchanged.
func (p *Position) SetFEN(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	n := New(p.tables)
	n.keys = p.keys
	n.states[0] = State{EnPassant: board.NoSquare, KingSquare: board.NoSquare}

	if err := n.parsePlacement(parts[0]); err != nil {
		return err
	}

	switch parts[1] {
	case "w":
		n.sideToMove = board.White
	case "b":
		n.sideToMove = board.Black
	default:
		return fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	rule50, fullMove := 0, 1
	if len(parts) > 4 {
		v, err := strconv.Atoi(parts[4])
		if err != nil || v < 0 {
			return fmt.Errorf("%w: invalid half-move clock: %s", ErrInvalidFEN, parts[4])
		}
		rule50 = v
	}
	if len(parts) > 5 {
		v, err := strconv.Atoi(parts[5])
		if err != nil || v < 1 {
			return fmt.Errorf("%w: invalid full-move number: %s", ErrInvalidFEN, parts[5])
		}
		fullMove = v
	}
	n.numMoves = 2*(fullMove-1) + int(n.sideToMove)

	for c := board.White; c <= board.Black; c++ {
		if n.counts[board.NewPiece(board.King, c)] != 1 {
			return illegal("Invalid number of kings")
		}
	}
	if n.byType[board.Pawn]&(board.Rank1BB|board.Rank8BB) != 0 {
		return illegal("Pawn on first or last rank")
	}

	for i := range n.castlingMask {
		n.castlingMask[i] = board.AllCastling
		n.castlingKingDest[i] = board.NoSquare
		n.castlingRookDest[i] = board.NoSquare
	}
	if err := n.parseCastling(parts[2]); err != nil {
		return err
	}

	st := n.st()
	st.Rule50 = rule50
	st.KingSquare = n.KingSquare(n.sideToMove)
	st.Checkers = n.AttackersBy(n.sideToMove.Other(), st.KingSquare, n.occupied)
	st.PinMask = n.pinMask(n.sideToMove.Other(), st.KingSquare)

	if parts[3] != "-" {
		sq, err := board.ParseSquare(parts[3])
		if err != nil {
			return fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, parts[3])
		}
		if n.isValidEnPassant(sq) {
			st.EnPassant = sq
		}
	}

	if n.sideToMove == board.Black {
		st.Key ^= n.keys.Side()
	}
	st.Key ^= n.keys.EnPassant(st.EnPassant) ^ n.keys.Castling(st.Castling)
	n.repetitions[st.Key&repetitionMask]++

	enemyKing := n.KingSquare(n.sideToMove.Other())
	if n.AttackersBy(n.sideToMove, enemyKing, n.occupied) != 0 {
		return illegal("King not in the side to move is under attack")
	}

	*p = *n
	return nil
}

func (p *Position) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := board.Rank8 - board.Rank(i)
		file := board.FileA

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += board.File(c - '0')
				continue
			}
			pc := board.PieceFromChar(c)
			if pc == board.NoPiece {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			if !file.IsValid() {
				return fmt.Errorf("%w: rank %s overflows", ErrInvalidFEN, rank)
			}
			p.addPiece(pc, board.NewSquare(file, rank))
			file++
		}

		if file != board.NoFile {
			return fmt.Errorf("%w: rank %s has %d files", ErrInvalidFEN, rank, file)
		}
	}
	return nil
}

// parseCastling grants each right named by the FEN castling field. "K" and "Q"
// pick the outermost rook on the back rank; file letters (Shredder notation)
// pick the rook on that file.
func (p *Position) parseCastling(field string) error {
	if field == "-" {
		return nil
	}

	chars := []byte(field)
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	for _, ch := range chars {
		var c board.Color
		switch {
		case ch >= 'A' && ch <= 'Z':
			c = board.White
			ch += 'a' - 'A'
		case ch >= 'a' && ch <= 'z':
			c = board.Black
		default:
			return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, ch)
		}

		backRank := board.Rank1.Relative(c).BB()
		rooks := p.byPiece[board.NewPiece(board.Rook, c)] & backRank
		var rookSq board.Square
		switch {
		case ch == 'k':
			rookSq = rooks.MSB()
		case ch == 'q':
			rookSq = rooks.LSB()
		case ch >= 'a' && ch <= 'h':
			rookSq = board.NewSquare(board.File(ch-'a'), board.Rank1.Relative(c))
		default:
			return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, ch)
		}
		if rookSq == board.NoSquare {
			continue
		}

		kingSq := p.KingSquare(c)
		right := board.LongCastling(c)
		if rookSq > kingSq {
			right = board.ShortCastling(c)
		}
		if (ch == 'k' && !right.IsShort()) || (ch == 'q' && right.IsShort()) {
			continue
		}
		if p.st().Castling&right != 0 || !p.castlingAvailable(c, right, kingSq, rookSq) {
			continue
		}
		p.grantCastling(c, right, kingSq, rookSq)
	}

	p.chess960 = false
	standard := [4]board.Move{
		board.NewMove(board.E1, board.H1, board.Castling),
		board.NewMove(board.E1, board.A1, board.Castling),
		board.NewMove(board.E8, board.H8, board.Castling),
		board.NewMove(board.E8, board.A8, board.Castling),
	}
	for i, right := range [4]board.CastlingRights{board.WhiteShort, board.WhiteLong, board.BlackShort, board.BlackLong} {
		if m := p.castlingMoves[right]; m != board.NullMove && m != standard[i] {
			p.chess960 = true
		}
	}
	return nil
}

func (p *Position) castlingAvailable(c board.Color, right board.CastlingRights, kingSq, rookSq board.Square) bool {
	backRank := board.Rank1.Relative(c)
	if kingSq.Rank() != backRank || rookSq.Rank() != backRank {
		return false
	}
	if p.squares[rookSq] != board.NewPiece(board.Rook, c) {
		return false
	}
	if right.IsShort() != (kingSq < rookSq) {
		return false
	}
	f := kingSq.File()
	return f != board.FileA && f != board.FileH
}

func (p *Position) grantCastling(c board.Color, right board.CastlingRights, kingSq, rookSq board.Square) {
	st := p.st()
	st.Castling |= right

	p.castlingMask[kingSq] &^= board.CastlingFor(c)
	p.castlingMask[rookSq] &^= right

	kingDest, rookDest := board.G1.Relative(c), board.F1.Relative(c)
	if !right.IsShort() {
		kingDest, rookDest = board.C1.Relative(c), board.D1.Relative(c)
	}
	p.castlingKingDest[rookSq] = kingDest
	p.castlingRookDest[rookSq] = rookDest

	kingPath := p.tables.PathBetween(kingSq, kingDest) &^ board.SquareBB(kingSq)
	p.castlingKingPath[rookSq] = kingPath
	// The castling pieces themselves never block each other.
	p.castlingPath[rookSq] = (kingPath | p.tables.PathBetween(rookSq, rookDest)) &^ (board.SquareBB(rookSq) | board.SquareBB(kingSq))
	p.castlingMoves[right] = board.NewMove(kingSq, rookSq, board.Castling)
}

// isValidEnPassant reports whether a FEN en passant square can actually be
// captured on by the side to move.
func (p *Position) isValidEnPassant(ep board.Square) bool {
	us := p.sideToMove
	them := us.Other()
	if ep.RelativeRank(us) != board.Rank6 {
		return false
	}

	dir := board.Forward(them)
	pushed := ep.Add(dir)
	if p.squares[pushed] != board.NewPiece(board.Pawn, them) {
		return false
	}
	if p.squares[ep] != board.NoPiece || p.squares[ep.Add(-dir)] != board.NoPiece {
		return false
	}
	if !p.canCaptureEnPassant(ep) {
		return false
	}

	checkers := p.st().Checkers
	if checkers == 0 {
		return true
	}
	if checkers.MoreThanOne() {
		return false
	}
	// The double push must have given the check, either directly or by
	// uncovering a slider through the square it left.
	pushBB := board.SquareBB(ep.Add(-dir)) | board.SquareBB(pushed)
	return pushBB&p.tables.PathBetween(p.st().KingSquare, checkers.LSB()) != 0
}

// FEN returns the FEN string of the current position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := board.Rank8; ; rank-- {
		empty := 0
		for file := board.FileA; file <= board.FileH; file++ {
			pc := p.squares[board.NewSquare(file, rank)]
			if pc == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank == board.Rank1 {
			break
		}
		sb.WriteByte('/')
	}

	if p.sideToMove == board.White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	sb.WriteString(p.castlingField())
	sb.WriteByte(' ')
	sb.WriteString(p.st().EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", p.st().Rule50, p.FullMoveNumber())

	return sb.String()
}

func (p *Position) castlingField() string {
	cr := p.st().Castling
	if !p.chess960 || cr == board.NoCastling {
		return cr.String()
	}

	var sb strings.Builder
	for _, right := range [4]board.CastlingRights{board.WhiteShort, board.WhiteLong, board.BlackShort, board.BlackLong} {
		if cr&right == 0 {
			continue
		}
		ch := byte('a' + p.castlingMoves[right].Dest().File())
		if right.Color() == board.White {
			ch -= 'a' - 'A'
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
