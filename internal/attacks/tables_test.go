package attacks

import (
	"testing"

	"github.com/hailam/chesslib/internal/board"
)

// TestMagicCorrectness checks every subset of every relevant mask against ray casting.
func TestMagicCorrectness(t *testing.T) {
	tables := Shared()

	for _, pt := range []board.PieceType{board.Bishop, board.Rook} {
		for sq := board.A1; sq <= board.H8; sq++ {
			m := tables.Magic(pt, sq)
			var subset board.Bitboard
			count := 0
			for {
				got := tables.Attacks(pt, sq, subset)
				want := SlowAttacks(pt, sq, subset)
				if got != want {
					t.Fatalf("%s on %s, occupancy %x: got\n%s\nwant\n%s", pt, sq, uint64(subset), got, want)
				}
				count++
				subset = (subset - m.Mask) & m.Mask
				if subset == 0 {
					break
				}
			}
			if count != 1<<m.Mask.PopCount() {
				t.Fatalf("%s on %s: walked %d subsets, mask has %d bits", pt, sq, count, m.Mask.PopCount())
			}
		}
	}
}

func TestMagicIgnoresIrrelevantOccupancy(t *testing.T) {
	tables := Shared()

	// Edge blockers and pieces off the rays never change the lookup.
	occ := board.Edges | board.SquareBB(board.B3) | board.SquareBB(board.G6)
	for sq := board.A1; sq <= board.H8; sq++ {
		if got, want := tables.RookAttacks(sq, occ), SlowAttacks(board.Rook, sq, occ); got != want {
			t.Errorf("rook on %s: got %x want %x", sq, uint64(got), uint64(want))
		}
		if got, want := tables.BishopAttacks(sq, occ), SlowAttacks(board.Bishop, sq, occ); got != want {
			t.Errorf("bishop on %s: got %x want %x", sq, uint64(got), uint64(want))
		}
	}
}

func TestRelevantMaskBits(t *testing.T) {
	tests := []struct {
		pt   board.PieceType
		sq   board.Square
		bits int
	}{
		{board.Rook, board.A1, 12},
		{board.Rook, board.E4, 10},
		{board.Rook, board.H8, 12},
		{board.Rook, board.D1, 11},
		{board.Bishop, board.A1, 6},
		{board.Bishop, board.E4, 9},
		{board.Bishop, board.D4, 9},
		{board.Bishop, board.B2, 5},
	}

	for _, tc := range tests {
		t.Run(tc.pt.String()+"-"+tc.sq.String(), func(t *testing.T) {
			if got := relevantMask(tc.pt, tc.sq).PopCount(); got != tc.bits {
				t.Errorf("mask bits = %d, want %d", got, tc.bits)
			}
		})
	}
}

func TestBuildWithOtherSeed(t *testing.T) {
	other, err := Build(12345)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tables := Shared()

	occ := board.SquareBB(board.D4) | board.SquareBB(board.F6) | board.SquareBB(board.B2) | board.SquareBB(board.E7) | board.SquareBB(board.C5)
	for sq := board.A1; sq <= board.H8; sq++ {
		if other.QueenAttacks(sq, occ) != tables.QueenAttacks(sq, occ) {
			t.Fatalf("queen attacks on %s differ between seeds", sq)
		}
	}
}

func TestStepAttacks(t *testing.T) {
	tables := Shared()

	tests := []struct {
		name string
		got  board.Bitboard
		want int
	}{
		{"knight a1", tables.KnightAttacks(board.A1), 2},
		{"knight d4", tables.KnightAttacks(board.D4), 8},
		{"knight h5", tables.KnightAttacks(board.H5), 4},
		{"king a1", tables.KingAttacks(board.A1), 3},
		{"king e4", tables.KingAttacks(board.E4), 8},
		{"white pawn a2", tables.PawnAttacks(board.White, board.A2), 1},
		{"black pawn e7", tables.PawnAttacks(board.Black, board.E7), 2},
		{"queen d4 empty", tables.PseudoAttacks(board.Queen, board.D4), 27},
		{"pawn pseudo", tables.PseudoAttacks(board.Pawn, board.E4), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.got.PopCount(); got != tc.want {
				t.Errorf("popcount = %d, want %d", got, tc.want)
			}
		})
	}

	if tables.PawnAttacks(board.White, board.E4) != board.SquareBB(board.D5)|board.SquareBB(board.F5) {
		t.Error("white pawn on e4 should attack d5 and f5")
	}
	if tables.PawnAttacks(board.Black, board.E4) != board.SquareBB(board.D3)|board.SquareBB(board.F3) {
		t.Error("black pawn on e4 should attack d3 and f3")
	}
}

func TestPathBetween(t *testing.T) {
	tables := Shared()

	tests := []struct {
		name string
		a, b board.Square
		want board.Bitboard
	}{
		{"same square", board.E4, board.E4, board.SquareBB(board.E4)},
		{"adjacent", board.E1, board.F1, board.SquareBB(board.F1)},
		{"rank", board.A1, board.E1, board.SquareBB(board.B1) | board.SquareBB(board.C1) | board.SquareBB(board.D1) | board.SquareBB(board.E1)},
		{"file reversed", board.E8, board.E5, board.SquareBB(board.E7) | board.SquareBB(board.E6) | board.SquareBB(board.E5)},
		{"diagonal", board.A1, board.D4, board.SquareBB(board.B2) | board.SquareBB(board.C3) | board.SquareBB(board.D4)},
		{"anti diagonal", board.H1, board.F3, board.SquareBB(board.G2) | board.SquareBB(board.F3)},
		{"unaligned", board.A1, board.B3, board.SquareBB(board.B3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tables.PathBetween(tc.a, tc.b); got != tc.want {
				t.Errorf("PathBetween(%s, %s) =\n%s\nwant\n%s", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestLineThrough(t *testing.T) {
	tables := Shared()

	if got := tables.LineThrough(board.C1, board.E1); got != board.Rank1BB {
		t.Errorf("LineThrough(c1, e1) = %x, want rank 1", uint64(got))
	}
	if got := tables.LineThrough(board.D7, board.D2); got != board.FileDBB {
		t.Errorf("LineThrough(d7, d2) = %x, want d-file", uint64(got))
	}
	diag := board.SquareBB(board.A1) | board.SquareBB(board.B2) | board.SquareBB(board.C3) | board.SquareBB(board.D4) |
		board.SquareBB(board.E5) | board.SquareBB(board.F6) | board.SquareBB(board.G7) | board.SquareBB(board.H8)
	if got := tables.LineThrough(board.F6, board.C3); got != diag {
		t.Errorf("LineThrough(f6, c3) = %x, want long diagonal", uint64(got))
	}
	if got := tables.LineThrough(board.A1, board.B3); got != board.Empty {
		t.Errorf("LineThrough(a1, b3) = %x, want empty", uint64(got))
	}
	if !tables.Aligned(board.A1, board.H8, board.E5) || tables.Aligned(board.A1, board.H8, board.E4) {
		t.Error("Aligned disagrees with the long diagonal")
	}
}

func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Build(uint64(i + 1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRookAttacks(b *testing.B) {
	tables := Shared()
	occ := board.SquareBB(board.D4) | board.SquareBB(board.F6) | board.SquareBB(board.B2)
	var sink board.Bitboard
	for i := 0; i < b.N; i++ {
		sink ^= tables.RookAttacks(board.Square(i&63), occ)
	}
	_ = sink
}
