// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended
type EndType int

const (
	// Nil is the EndType of any TimeStep that is not the last
	Nil EndType = iota

	// TerminalStateReached means the environment entered a terminal
	// state, such as the car leaving the track or completing a lap
	TerminalStateReached

	// Timeout means the episode hit its step limit
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	EndType
	Reward      float64
	Observation *mat.VecDense
	Number      int
}

// New returns a new TimeStep
func New(t StepType, r float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Observation: o, Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd marks the TimeStep as the last in its episode, recording the
// reason the episode ended. If the TimeStep was already marked as
// ended, the original reason is kept.
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	if t.EndType == Nil {
		t.EndType = e
	}
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  End: %v  |  Reward:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.EndType, t.Reward, t.Number)
}

// Transition is a single (s, a, r, s', done) experience tuple. Transitions
// stored in a replay buffer are copied in, so the buffer owns its own
// snapshot of the states.
type Transition struct {
	State     *mat.VecDense
	Action    int
	Reward    float64
	NextState *mat.VecDense
	Done      bool
}

// NewTransition creates a Transition from the TimeStep an action was
// taken in, the action, and the TimeStep the action led to
func NewTransition(step TimeStep, action int, next TimeStep) Transition {
	return Transition{
		State:     step.Observation,
		Action:    action,
		Reward:    next.Reward,
		NextState: next.Observation,
		Done:      next.Last(),
	}
}
