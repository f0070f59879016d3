// Package expreplay implements experience replay buffers
package expreplay

import (
	"fmt"

	ts "github.com/samuelfneumann/racingline/timestep"
)

// orderedSampler implements an experience replay buffer that can return
// its underlying indices to sample from and insertion order of these
// indices
type orderedSampler interface {
	ExperienceReplayer
	sampleFrom() []int

	// insertOrder returns the first n indices that were added to the
	// buffer
	insertOrder(n int) []int
}

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	SampleMethod      SelectorType `yaml:"sample_method"`
	BatchSize         int          `yaml:"batch_size"`
	MinReplayCapacity int          `yaml:"min_capacity"`
	MaxReplayCapacity int          `yaml:"max_capacity"`
}

// Create creates and returns the ExperienceReplayer with the specified
// Config.
func (c Config) Create(featureSize int, seed uint64) (ExperienceReplayer,
	error) {
	sampler, err := CreateSelector(c.SampleMethod, c.BatchSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	return New(sampler, c.MinReplayCapacity, c.MaxReplayCapacity,
		featureSize)
}

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer
	Add(t ts.Transition) error

	// Sample samples a batch of transitions from the buffer. Returned
	// transitions do not share storage with the buffer.
	Sample() ([]ts.Transition, error)

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// New creates and returns a new ExperienceReplayer. The sampler
// parameter is a Selector which determines how data is sampled from
// the replay buffer. Once the buffer holds maxCapacity transitions,
// each Add overwrites the oldest transition. The featureSize parameter
// defines the size of the state vectors.
func New(sampler Selector, minCapacity, maxCapacity,
	featureSize int) (ExperienceReplayer, error) {
	if sampler == nil {
		return nil, fmt.Errorf("new: nil sampler")
	}
	if sampler.BatchSize() <= 0 {
		return nil, fmt.Errorf("new: batch size must be > 0")
	}
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity < 1 {
		return nil, fmt.Errorf("new: maxCapacity must be >= 1")
	}
	if minCapacity > maxCapacity {
		return nil, fmt.Errorf("new: minCapacity (%v) > maxCapacity (%v)",
			minCapacity, maxCapacity)
	}
	if maxCapacity < sampler.BatchSize() {
		return nil, fmt.Errorf("new: cannot have batch size(%v) > max "+
			"buffer capacity (%v)", sampler.BatchSize(), maxCapacity)
	}
	if featureSize <= 0 {
		return nil, fmt.Errorf("new: featureSize must be > 0")
	}

	return newFifoRemove1Cache(sampler, minCapacity, maxCapacity,
		featureSize), nil
}
