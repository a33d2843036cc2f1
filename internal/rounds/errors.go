package rounds

import "errors"

var (
	ErrRoundAlreadyActive = errors.New("A round is already active")
	ErrNoActiveRound      = errors.New("No active round")
	ErrInvalidDuration    = errors.New("Duration must be a positive number of minutes")
)
