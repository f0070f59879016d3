package expreplay

import (
	"fmt"
	"math/rand/v2"
)

// SelectorType names the ways data can be sampled from a buffer
type SelectorType string

// Available Selectors
const (
	Uniform SelectorType = "Uniform"
	Fifo    SelectorType = "Fifo"
)

// CreateSelector is a factory for creating Selectors of a given type
func CreateSelector(t SelectorType, batchSize int,
	seed uint64) (Selector, error) {
	switch t {
	case Uniform:
		return NewUniformSelector(batchSize, seed), nil

	case Fifo:
		return NewFifoSelector(batchSize), nil
	}

	return nil, fmt.Errorf("createSelector: no such selector %q", t)
}

// Selector implements functionality for choosing how data should be
// sampled from an experience replay buffer
type Selector interface {
	// choose selects the indices at which data should be sampled from
	// the experience replay buffer
	choose(c orderedSampler) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly, with replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly, with replacement, from an experience replay buffer
func NewUniformSelector(samples int, seed uint64) Selector {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return &uniformSelector{samples: samples, rng: rng}
}

// BatchSize gets the number of samples in a batch drawn from the
// buffer
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (u *uniformSelector) choose(c orderedSampler) []int {
	selected := make([]int, u.BatchSize())
	keys := c.sampleFrom()

	for i := range selected {
		selected[i] = keys[u.rng.IntN(len(keys))]
	}

	return selected
}

// fifoSelector is a Selector which selects the oldest data in an
// experience replay buffer, in the order it was inserted
type fifoSelector struct {
	samples int
}

// NewFifoSelector returns a new Selector which draws data from an
// experience replay buffer as FiFo.
func NewFifoSelector(samples int) Selector {
	return &fifoSelector{samples: samples}
}

// BatchSize gets the number of samples in a batch drawn from the
// buffer
func (f *fifoSelector) BatchSize() int {
	return f.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (f *fifoSelector) choose(c orderedSampler) []int {
	insertOrder := c.insertOrder(f.BatchSize())

	selected := make([]int, len(insertOrder))
	copy(selected, insertOrder)
	return selected
}
