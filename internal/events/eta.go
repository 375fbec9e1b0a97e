package events

import (
	"time"

	"hexdominion/pkg/duration"
)

// TurnLength is the wall-clock length one turn is assumed to represent
// when a payload needs to report an ETA in human terms rather than a
// raw turn count - construction lead time and scout travel time are
// both counted in turns internally but read more
// naturally as a duration in a client-facing event feed.
const TurnLength = 24 * time.Hour

// ETA converts a turn count into the JSON-friendly duration wrapper,
// so payload consumers get "72h0m0s" instead of a bare "3" they'd have
// to know to multiply by TurnLength themselves.
func ETA(turnsRemaining int) duration.Duration {
	if turnsRemaining < 0 {
		turnsRemaining = 0
	}
	return duration.NewDuration(time.Duration(turnsRemaining) * TurnLength)
}
