package position

import "github.com/hailam/chesslib/internal/board"

// MakeMove applies a legal move and pushes a new state. The move must come
// from the generator or pass IsPseudoLegal and IsLegal.
func (p *Position) MakeMove(m board.Move) {
	prev := p.st()
	p.states = append(p.states, State{
		Castling:  prev.Castling,
		Rule50:    prev.Rule50 + 1,
		EnPassant: board.NoSquare,
		Captured:  board.NoPiece,
		Key:       prev.Key ^ p.keys.EnPassant(prev.EnPassant) ^ p.keys.Side(),
		Ply:       prev.Ply + 1,
		LastMove:  m,
	})
	st := p.st()

	us := p.sideToMove
	them := us.Other()
	start, dest := m.Start(), m.Dest()

	if cr := st.Castling & p.castlingMask[start] & p.castlingMask[dest]; cr != st.Castling {
		st.Key ^= p.keys.Castling(st.Castling) ^ p.keys.Castling(cr)
		st.Castling = cr
	}

	p.sideToMove = them
	p.numMoves++

	if m.Type() != board.Castling && p.squares[dest] != board.NoPiece {
		st.Captured = p.removePiece(dest)
		st.Rule50 = 0
	}

	switch m.Type() {
	case board.Normal:
		p.movePiece(start, dest)

	case board.PawnMove:
		p.movePiece(start, dest)
		st.Rule50 = 0

	case board.PawnPushTwice:
		p.movePiece(start, dest)
		st.Rule50 = 0

	case board.Castling:
		// The king and rook may land on each other's start squares in
		// Chess960, so both leave the board before either is placed.
		king := p.removePiece(start)
		rook := p.removePiece(dest)
		p.addPiece(king, p.castlingKingDest[dest])
		p.addPiece(rook, p.castlingRookDest[dest])

	case board.Promotion:
		p.removePiece(start)
		p.addPiece(board.NewPiece(m.Promotion(), us), dest)
		st.Rule50 = 0

	case board.EnPassant:
		st.Captured = p.removePiece(dest.Add(-board.Forward(us)))
		p.movePiece(start, dest)
		st.Rule50 = 0
	}

	st.KingSquare = p.KingSquare(them)
	st.Checkers = p.AttackersBy(us, st.KingSquare, p.occupied)
	st.PinMask = p.pinMask(us, st.KingSquare)

	// Needs the new king square and checkers.
	if m.Type() == board.PawnPushTwice {
		if ep := start.Add(board.Forward(us)); p.canCaptureEnPassant(ep) {
			st.EnPassant = ep
			st.Key ^= p.keys.EnPassant(ep)
		}
	}
	p.updateRepetition()

	if DebugValidation {
		p.mustValidate("MakeMove " + m.String())
	}
}

// UndoMove takes back the last move and restores the previous state exactly.
func (p *Position) UndoMove() {
	if len(p.states) == 1 {
		panic("position: UndoMove with no move to undo")
	}

	st := p.st()
	m := st.LastMove
	start, dest := m.Start(), m.Dest()

	p.repetitions[st.Key&repetitionMask]--
	p.sideToMove = p.sideToMove.Other()
	p.numMoves--
	us := p.sideToMove

	switch m.Type() {
	case board.Normal, board.PawnMove, board.PawnPushTwice:
		p.movePiece(dest, start)

	case board.Castling:
		king := p.removePiece(p.castlingKingDest[dest])
		rook := p.removePiece(p.castlingRookDest[dest])
		p.addPiece(king, start)
		p.addPiece(rook, dest)

	case board.Promotion:
		p.removePiece(dest)
		p.addPiece(board.NewPiece(board.Pawn, us), start)

	case board.EnPassant:
		p.movePiece(dest, start)
		p.addPiece(st.Captured, dest.Add(-board.Forward(us)))
	}

	if st.Captured != board.NoPiece && m.Type() != board.EnPassant {
		p.addPiece(st.Captured, dest)
	}

	p.states = p.states[:len(p.states)-1]

	if DebugValidation {
		p.mustValidate("UndoMove " + m.String())
	}
}

// updateRepetition counts how often the new position occurred before,
// looking back only as far as the last irreversible move.
func (p *Position) updateRepetition() {
	st := p.st()
	p.repetitions[st.Key&repetitionMask]++
	st.Repetition = 0

	end := min(st.Rule50, st.Ply)
	if end < 4 || p.repetitions[st.Key&repetitionMask] < 2 {
		return
	}

	cur := len(p.states) - 1
	for i := 4; i <= end; i += 2 {
		if prior := &p.states[cur-i]; prior.Key == st.Key {
			st.Repetition = prior.Repetition + 1
			return
		}
	}
}

// canCaptureEnPassant reports whether some pawn of the side to move has a
// legal en passant capture onto ep.
func (p *Position) canCaptureEnPassant(ep board.Square) bool {
	us := p.sideToMove
	for pawns := p.tables.PawnAttacks(us.Other(), ep) & p.Pieces(us, board.Pawn); pawns != 0; {
		if p.IsLegalEnPassant(board.NewMove(pawns.PopLSB(), ep, board.EnPassant)) {
			return true
		}
	}
	return false
}
