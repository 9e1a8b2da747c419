package apperror

import "errors"

var (
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrGameNotActive   = errors.New("game is not active")
	ErrSessionNotFound = errors.New("session not found")
)

const (
	ReasonInvalidCell     = "invalid_cell"
	ReasonCellOccupied    = "cell_occupied"
	ReasonGameNotActive   = "game_not_active"
	ReasonSessionNotFound = "session_not_found"
	ReasonInternal        = "internal"
)

// Reason - maps an error chain to the rejection reason sent to clients.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCell):
		return ReasonInvalidCell
	case errors.Is(err, ErrCellOccupied):
		return ReasonCellOccupied
	case errors.Is(err, ErrGameNotActive):
		return ReasonGameNotActive
	case errors.Is(err, ErrSessionNotFound):
		return ReasonSessionNotFound
	default:
		return ReasonInternal
	}
}

// IsRejection reports whether err is a move rejection that left the game untouched.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidCell) || errors.Is(err, ErrCellOccupied) || errors.Is(err, ErrGameNotActive)
}
