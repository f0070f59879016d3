package tracker

import (
	ts "github.com/samuelfneumann/racingline/timestep"
)

// EpisodeLength tracks and saves the number of steps taken in each
// episode of an experiment
type EpisodeLength struct {
	lastTimeStep   int
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength creates and returns a new *EpisodeLength Tracker
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{lastTimeStep: -1, filename: filename}
}

// Track tracks the current TimeStep, recording the episode length
// once the episode ends.
//
// Track panics if it is called for non-sequential timesteps
func (e *EpisodeLength) Track(step ts.TimeStep) {
	checkSequential(e.lastTimeStep, step)
	e.lastTimeStep = step.Number

	if step.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(step.Number))
		e.lastTimeStep = -1
	}
}

// Lengths returns the lengths of all finished episodes
func (e *EpisodeLength) Lengths() []float64 {
	return append([]float64(nil), e.episodeLengths...)
}

// Save saves the episode lengths to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
