// Package agent defines an agent interface
package agent

import (
	ts "github.com/samuelfneumann/racingline/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
//
// A Learner stores experience with Remember and learns from it with
// Replay. Learners that bootstrap from a target network only refresh
// it when UpdateTargetModel is called; Replay never does.
type Learner interface {
	Remember(t ts.Transition) error
	Replay() error
	UpdateTargetModel() error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. In evaluation mode a
// policy acts greedily with respect to what it has learned.
type Policy interface {
	SelectAction(t ts.TimeStep) int
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// EGreedyPolicy implements an epsilon greedy policy whose epsilon value
// can be set and retrieved
type EGreedyPolicy interface {
	Policy
	SetEpsilon(float64)
	Epsilon() float64
}
