package attacks

import "github.com/hailam/chesslib/internal/board"

func initGeometry(t *Tables) {
	for a := board.A1; a <= board.H8; a++ {
		for b := board.A1; b <= board.H8; b++ {
			bbA, bbB := board.SquareBB(a), board.SquareBB(b)
			t.path[a][b] = bbB

			if a == b {
				t.line[a][b] = bbA
				continue
			}

			for _, pt := range [2]board.PieceType{board.Bishop, board.Rook} {
				if t.pseudo[pt][a]&bbB == 0 {
					continue
				}
				t.line[a][b] = (t.pseudo[pt][a] & t.pseudo[pt][b]) | bbA | bbB
				t.path[a][b] |= t.Attacks(pt, a, bbB) & t.Attacks(pt, b, bbA)
			}
		}
	}
}

// PathBetween returns the squares strictly between a and b plus b itself.
// If a and b are not on a common line the result is just b.
func (t *Tables) PathBetween(a, b board.Square) board.Bitboard {
	return t.path[a][b]
}

// LineThrough returns the full edge-to-edge line through a and b, or an empty
// bitboard when they are not aligned.
func (t *Tables) LineThrough(a, b board.Square) board.Bitboard {
	return t.line[a][b]
}

// Aligned returns true if c lies on the line through a and b.
func (t *Tables) Aligned(a, b, c board.Square) bool {
	return t.line[a][b]&board.SquareBB(c) != 0
}
