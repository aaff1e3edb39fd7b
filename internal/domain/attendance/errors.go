package attendance

import "errors"

var (
	ErrAlreadyLoggedIn  = errors.New("already timed in for this date")
	ErrAlreadyLoggedOut = errors.New("already timed out for this date")
	ErrNotYetTimedIn    = errors.New("no time-in recorded for this date")
	ErrUnknownStation   = errors.New("unknown kiosk station")
	ErrInvalidKioskCode = errors.New("invalid kiosk code")
)
