package expreplay

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/racingline/timestep"
)

// fifoRemove1Cache implements a concrete ExperienceReplayer where
// elements are removed from the buffer in a FiFo manner, and only a
// single element is removed from the cache at a time.
//
// The cache is a ring buffer: transitions are stored in flat,
// preallocated caches and a write cursor marks the slot of the next
// insertion. Once full, the slot under the cursor holds the oldest
// transition, so inserting and evicting are both O(1).
type fifoRemove1Cache struct {
	stateCache     []float64
	actionCache    []int
	rewardCache    []float64
	nextStateCache []float64
	doneCache      []bool

	indices         []int
	currentInUsePos int
	isFull          bool

	// Outlines how data is sampled
	sampler Selector

	minCapacity int
	maxCapacity int
	featureSize int
}

// newFifoRemove1Cache returns a new fifoRemove1Cache. The sampler
// parameter is a Selector which determines how data is sampled
// from the replay buffer. The featureSize parameter defines the size
// of the state vectors.
// The minCapacity parameter determines the minimum number of samples
// that should be in the buffer before sampling is allowed.
// The maxCapacity parameter determines the maximum number of samples
// allowed in the buffer at any given time.
func newFifoRemove1Cache(sampler Selector, minCapacity, maxCapacity,
	featureSize int) *fifoRemove1Cache {
	indices := make([]int, maxCapacity)
	for i := 0; i < maxCapacity; i++ {
		indices[i] = i
	}

	return &fifoRemove1Cache{
		stateCache:     make([]float64, maxCapacity*featureSize),
		actionCache:    make([]int, maxCapacity),
		rewardCache:    make([]float64, maxCapacity),
		nextStateCache: make([]float64, maxCapacity*featureSize),
		doneCache:      make([]bool, maxCapacity),

		indices:         indices,
		currentInUsePos: 0,
		isFull:          false,

		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		featureSize: featureSize,
	}
}

// String returns the string representation of the fifoRemove1Cache
func (f *fifoRemove1Cache) String() string {
	baseStr := "Insert Order: %v \nStates: %v \nActions: %v \nRewards: %v" +
		" \nNext States: %v \nDone: %v"
	return fmt.Sprintf(baseStr, f.insertOrder(f.Capacity()), f.stateCache,
		f.actionCache, f.rewardCache, f.nextStateCache, f.doneCache)
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (f *fifoRemove1Cache) BatchSize() int {
	return f.sampler.BatchSize()
}

// insertOrder returns at most n slot indices, oldest transition first
func (f *fifoRemove1Cache) insertOrder(n int) []int {
	if !f.isFull {
		return f.indices[:min(n, f.currentInUsePos)]
	}

	order := make([]int, 0, f.maxCapacity)
	order = append(order, f.indices[f.currentInUsePos:]...)
	order = append(order, f.indices[:f.currentInUsePos]...)

	return order[:min(n, f.maxCapacity)]
}

// sampleFrom returns the slice of indices to sample from
func (f *fifoRemove1Cache) sampleFrom() []int {
	if !f.isFull {
		return f.indices[:f.currentInUsePos]
	}
	return f.indices
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (f *fifoRemove1Cache) Sample() ([]ts.Transition, error) {
	if f.Capacity() == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if f.Capacity() < f.MinCapacity() {
		return nil, &ExpReplayError{Op: "sample", Err: errInsufficientSamples}
	}

	indices := f.sampler.choose(f)

	batch := make([]ts.Transition, len(indices))
	for i, index := range indices {
		batch[i] = f.at(index)
	}
	return batch, nil
}

// at returns a copy of the transition stored in slot index
func (f *fifoRemove1Cache) at(index int) ts.Transition {
	start := index * f.featureSize
	end := start + f.featureSize

	state := make([]float64, f.featureSize)
	copy(state, f.stateCache[start:end])
	nextState := make([]float64, f.featureSize)
	copy(nextState, f.nextStateCache[start:end])

	return ts.Transition{
		State:     mat.NewVecDense(f.featureSize, state),
		Action:    f.actionCache[index],
		Reward:    f.rewardCache[index],
		NextState: mat.NewVecDense(f.featureSize, nextState),
		Done:      f.doneCache[index],
	}
}

// Capacity returns the current number of elements in the
// fifoRemove1Cache that are available for sampling
func (f *fifoRemove1Cache) Capacity() int {
	if f.isFull {
		return f.MaxCapacity()
	}
	return f.currentInUsePos
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the fifoRemove1Cache
func (f *fifoRemove1Cache) MaxCapacity() int {
	return f.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// fifoRemove1Cache before sampling is allowed
func (f *fifoRemove1Cache) MinCapacity() int {
	return f.minCapacity
}

// Add copies a transition into the slot under the write cursor,
// overwriting the oldest transition if the buffer is full
func (f *fifoRemove1Cache) Add(t ts.Transition) error {
	if t.State == nil || t.NextState == nil {
		return fmt.Errorf("add: transition states must not be nil")
	}
	if t.State.Len() != f.featureSize || t.NextState.Len() != f.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)\n\t"+
			"have(%v, %v)", f.featureSize, t.State.Len(), t.NextState.Len())
	}

	index := f.currentInUsePos
	start := index * f.featureSize

	// VecDense may be strided, so copy element by element
	for i := 0; i < f.featureSize; i++ {
		f.stateCache[start+i] = t.State.AtVec(i)
		f.nextStateCache[start+i] = t.NextState.AtVec(i)
	}
	f.actionCache[index] = t.Action
	f.rewardCache[index] = t.Reward
	f.doneCache[index] = t.Done

	f.currentInUsePos = (f.currentInUsePos + 1) % f.MaxCapacity()
	if f.currentInUsePos == 0 {
		f.isFull = true
	}
	return nil
}
