package environment

import ts "github.com/samuelfneumann/racingline/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// EpisodeSteps returns the number of steps after which episodes end
func (s StepLimit) EpisodeSteps() int {
	return s.episodeSteps
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.Timeout
func (s StepLimit) End(t *ts.TimeStep) bool {
	if t.Number >= s.episodeSteps {
		t.SetEnd(ts.Timeout)
		return true
	}
	return false
}
