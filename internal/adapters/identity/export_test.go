package identity

import "time"

// SetClock replaces the time source used when issuing tokens.
func (j *JWT) SetClock(now func() time.Time) {
	j.now = now
}
