package board

// Direction is a square-index offset for one step on the board.
type Direction int8

const (
	North     Direction = 8
	South     Direction = -8
	East      Direction = 1
	West      Direction = -1
	NorthEast Direction = North + East
	NorthWest Direction = North + West
	SouthEast Direction = South + East
	SouthWest Direction = South + West
)

// Forward returns the direction c's pawns advance in.
func Forward(c Color) Direction {
	if c == White {
		return North
	}
	return South
}
