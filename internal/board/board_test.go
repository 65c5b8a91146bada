package board

import "testing"

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Square
		wantErr bool
	}{
		{"a1", A1, false},
		{"h1", H1, false},
		{"e4", E4, false},
		{"h8", H8, false},
		{"i1", NoSquare, true},
		{"a9", NoSquare, true},
		{"e", NoSquare, true},
		{"e44", NoSquare, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSquare(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSquare(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseSquare(%q) = %v, want %v", tc.in, got, tc.want)
			}
			if !tc.wantErr && got.String() != tc.in {
				t.Errorf("String() = %q, want %q", got.String(), tc.in)
			}
		})
	}
}

func TestSquareGeometry(t *testing.T) {
	if E4.File() != FileE || E4.Rank() != Rank4 {
		t.Errorf("e4 = file %v rank %v", E4.File(), E4.Rank())
	}
	if NewSquare(FileG, Rank8) != G8 {
		t.Error("NewSquare(g, 8) != g8")
	}
	if E2.Relative(Black) != E7 || E2.Relative(White) != E2 {
		t.Error("Relative does not mirror for black")
	}
	if E7.RelativeRank(Black) != Rank2 {
		t.Errorf("e7 relative rank for black = %v", E7.RelativeRank(Black))
	}
	if E2.Add(Forward(White)) != E3 || E7.Add(Forward(Black)) != E6 {
		t.Error("Forward direction mismatch")
	}
}

func TestPieceEncoding(t *testing.T) {
	for _, c := range []Color{White, Black} {
		for pt := Pawn; pt <= King; pt++ {
			p := NewPiece(pt, c)
			if p.Type() != pt || p.Color() != c {
				t.Errorf("NewPiece(%v, %v) decodes to %v %v", pt, c, p.Type(), p.Color())
			}
			if PieceFromChar(p.String()[0]) != p {
				t.Errorf("PieceFromChar(%q) != %v", p.String(), p)
			}
		}
	}
	if PieceFromChar('x') != NoPiece || PieceFromChar('X') != NoPiece || PieceFromChar('3') != NoPiece {
		t.Error("invalid characters must map to NoPiece")
	}
}

func TestMovePacking(t *testing.T) {
	tests := []struct {
		name  string
		m     Move
		start Square
		dest  Square
		typ   MoveType
		promo PieceType
		text  string
	}{
		{"knight", NewMove(G1, F3, Normal), G1, F3, Normal, NoPieceType, "g1f3"},
		{"push", NewMove(E2, E4, PawnPushTwice), E2, E4, PawnPushTwice, NoPieceType, "e2e4"},
		{"castle", NewMove(E1, H1, Castling), E1, H1, Castling, NoPieceType, "e1h1"},
		{"promo", NewPromotion(B7, A8, Knight), B7, A8, Promotion, Knight, "b7a8n"},
		{"ep", NewMove(E5, D6, EnPassant), E5, D6, EnPassant, NoPieceType, "e5d6"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.m.Start() != tc.start || tc.m.Dest() != tc.dest {
				t.Errorf("squares = %v%v", tc.m.Start(), tc.m.Dest())
			}
			if tc.m.Type() != tc.typ {
				t.Errorf("type = %v, want %v", tc.m.Type(), tc.typ)
			}
			if tc.m.Promotion() != tc.promo {
				t.Errorf("promotion = %v, want %v", tc.m.Promotion(), tc.promo)
			}
			if tc.m.String() != tc.text {
				t.Errorf("String() = %q, want %q", tc.m.String(), tc.text)
			}
		})
	}

	if NewMove(G1, F3, Normal).IsPawnMove() || NewMove(E1, H1, Castling).IsPawnMove() {
		t.Error("piece moves reported as pawn moves")
	}
	if !NewMove(E2, E3, PawnMove).IsPawnMove() || !NewMove(E5, D6, EnPassant).IsPawnMove() {
		t.Error("pawn moves not reported as pawn moves")
	}
	if NullMove.String() != "0000" {
		t.Errorf("NullMove.String() = %q", NullMove.String())
	}
}

func TestCastlingRights(t *testing.T) {
	if ShortCastling(White) != WhiteShort || LongCastling(Black) != BlackLong {
		t.Error("castling right helpers mismatch")
	}
	tests := []struct {
		cr   CastlingRights
		want string
	}{
		{NoCastling, "-"},
		{AllCastling, "KQkq"},
		{WhiteShort | BlackLong, "Kq"},
		{WhiteLong | BlackShort, "Qk"},
		{BlackShort | BlackLong, "kq"},
	}
	for _, tc := range tests {
		if got := tc.cr.String(); got != tc.want {
			t.Errorf("CastlingRights(%d).String() = %q, want %q", tc.cr, got, tc.want)
		}
	}
	if BlackLong.Color() != Black || !WhiteShort.IsShort() || BlackLong.IsShort() {
		t.Error("single-right queries mismatch")
	}
}

func TestBitboardShift(t *testing.T) {
	if SquareBB(H4).Shift(East) != Empty {
		t.Error("east shift wrapped around the h-file")
	}
	if SquareBB(A4).Shift(NorthWest) != Empty {
		t.Error("north-west shift wrapped around the a-file")
	}
	if SquareBB(E4).Shift(SouthEast) != SquareBB(F3) {
		t.Error("south-east shift of e4 should be f3")
	}
	bb := SquareBB(A1) | SquareBB(C3) | SquareBB(H8)
	if !bb.MoreThanOne() || SquareBB(C3).MoreThanOne() {
		t.Error("MoreThanOne mismatch")
	}
	if bb.LSB() != A1 || bb.MSB() != H8 || bb.PopCount() != 3 {
		t.Error("LSB/MSB/PopCount mismatch")
	}
	if sq := bb.PopLSB(); sq != A1 || bb.PopCount() != 2 {
		t.Error("PopLSB mismatch")
	}
	if Empty.LSB() != NoSquare {
		t.Error("LSB of empty board must be NoSquare")
	}
}

func TestDiagonals(t *testing.T) {
	long := SquareBB(A1) | SquareBB(B2) | SquareBB(C3) | SquareBB(D4) |
		SquareBB(E5) | SquareBB(F6) | SquareBB(G7) | SquareBB(H8)
	if Diagonal(D4) != long || Diagonal(H8) != long {
		t.Errorf("Diagonal(d4) = %x", uint64(Diagonal(D4)))
	}
	if Diagonal(B1) != SquareBB(B1)|SquareBB(C2)|SquareBB(D3)|SquareBB(E4)|SquareBB(F5)|SquareBB(G6)|SquareBB(H7) {
		t.Errorf("Diagonal(b1) = %x", uint64(Diagonal(B1)))
	}
	if AntiDiagonal(H1) != SquareBB(H1)|SquareBB(G2)|SquareBB(F3)|SquareBB(E4)|SquareBB(D5)|SquareBB(C6)|SquareBB(B7)|SquareBB(A8) {
		t.Errorf("AntiDiagonal(h1) = %x", uint64(AntiDiagonal(H1)))
	}
	if AntiDiagonal(H8) != SquareBB(H8) || Diagonal(A8) != SquareBB(A8) {
		t.Error("corner diagonals must be single squares")
	}
	if AntiDiagonal(E4)&Diagonal(E4) != SquareBB(E4) {
		t.Error("diagonals through e4 must meet only on e4")
	}
}
