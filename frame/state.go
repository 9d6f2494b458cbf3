package frame

import "fmt"

//go:generate go tool stringer -type=State -trimprefix=State

// State is the position of the renderer within a frame.
type State uint8

const (
	StateIdle State = iota
	StateSlotWaitComplete
	StateEncoding
	StateSubmitted
	StatePresented
)

// allowed transitions. Encoding and Submitted fall back to Idle
// if the frame is dropped or fails.
var transitions = map[State][]State{
	StateIdle:             {StateSlotWaitComplete},
	StateSlotWaitComplete: {StateEncoding},
	StateEncoding:         {StateSubmitted, StateIdle},
	StateSubmitted:        {StatePresented, StateIdle},
	StatePresented:        {StateIdle},
}

func (s State) canTransitionTo(next State) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}

	return false
}

func mustTransition(from, to State) {
	if !from.canTransitionTo(to) {
		panic(fmt.Sprintf("invalid frame state transition %s -> %s", from, to))
	}
}
