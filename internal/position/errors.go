package position

import "errors"

var (
	// ErrIllegalPosition is the sentinel every IllegalPositionError matches.
	ErrIllegalPosition = errors.New("illegal position")
	// ErrInvalidFEN reports FEN text that cannot be parsed.
	ErrInvalidFEN = errors.New("invalid FEN")
	// ErrInvalidMove reports move text that cannot be parsed.
	ErrInvalidMove = errors.New("invalid move")
	// ErrIllegalMove reports well-formed move text that is not legal here.
	ErrIllegalMove = errors.New("illegal move")
)

// IllegalPositionError describes why a loaded position cannot occur in a game.
type IllegalPositionError struct {
	Reason string
}

func (e *IllegalPositionError) Error() string {
	return "illegal position: " + e.Reason
}

// Is lets errors.Is match ErrIllegalPosition.
func (e *IllegalPositionError) Is(target error) bool {
	return target == ErrIllegalPosition
}

func illegal(reason string) error {
	return &IllegalPositionError{Reason: reason}
}
