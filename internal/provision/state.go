package provision

import "fmt"

// State is the position of an attempt in the transmission state machine
type State int

const (
	StateIdle       State = iota // Not started
	StateGuidePhase              // Broadcasting guide codes
	StateDataPhase               // Broadcasting data code windows
	StateAcked                   // Device acknowledged
	StateErrored                 // Socket failure
	StateTimedOut                // Send window exhausted without an ack
	StateCanceled                // Caller's context ended
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGuidePhase:
		return "guide"
	case StateDataPhase:
		return "data"
	case StateAcked:
		return "acked"
	case StateErrored:
		return "errored"
	case StateTimedOut:
		return "timed_out"
	case StateCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateAcked || s == StateErrored || s == StateTimedOut || s == StateCanceled
}
