// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/samuelfneumann/racingline/timestep"
)

// Ender determines when an episode should end. If a TimeStep ends the
// episode, End marks it as the last TimeStep and returns true.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Environment implements a simulated environment with discrete
// actions. Actions are enumerated from 0 to ActionSpec().UpperBound.
type Environment interface {
	Reset() ts.TimeStep                  // Resets between episodes
	Step(action int) (ts.TimeStep, bool) // Takes one step
	LastTimeStep() ts.TimeStep           // Most recent TimeStep
	ObservationSpec() Spec
	ActionSpec() Spec
}
