package domain

import "github.com/jonboulle/clockwork"

// clock anchors the synthetic history and the baseline estimate to the
// current year. Tests freeze it via SetClock for reproducible series.
var clock = clockwork.NewRealClock()

// SetClock swaps the package time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
