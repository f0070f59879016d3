// Package policy implements policies that select actions using a
// neural network function approximator.
package policy

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/racingline/network"
	ts "github.com/samuelfneumann/racingline/timestep"
	"github.com/samuelfneumann/racingline/utils/floatutils"
)

// EGreedyMLP implements an epsilon greedy policy using a feedforward
// neural network. Given an environment with N actions, the network
// produces N outputs, each predicting the value of a distinct action.
//
// With probability epsilon an action is chosen uniformly at random,
// otherwise the action with the largest predicted value is chosen,
// breaking ties in favour of the lowest action index. In evaluation
// mode the policy is always greedy.
type EGreedyMLP struct {
	network.NeuralNet
	epsilon float64

	rng  *rand.Rand
	eval bool
}

// NewEGreedyMLP returns a new EGreedyMLP selecting actions using net.
func NewEGreedyMLP(net network.NeuralNet, epsilon float64,
	seed uint64) (*EGreedyMLP, error) {
	if net == nil {
		return nil, fmt.Errorf("newEGreedyMLP: nil network")
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newEGreedyMLP: epsilon must be in [0, 1]"+
			"\n\twant(0 ≤ ε ≤ 1)\n\thave(%v)", epsilon)
	}

	return &EGreedyMLP{
		NeuralNet: net,
		epsilon:   epsilon,
		rng:       rand.New(rand.NewPCG(seed, seed+1)),
	}, nil
}

// SetEpsilon sets the probability of taking a random action. Values
// outside [0, 1] are clipped.
func (e *EGreedyMLP) SetEpsilon(ε float64) {
	e.epsilon = floatutils.Clip(ε, 0, 1)
}

// Epsilon returns the probability of taking a random action
func (e *EGreedyMLP) Epsilon() float64 {
	return e.epsilon
}

// Act selects an action given an observation
func (e *EGreedyMLP) Act(obs mat.Vector) int {
	if !e.eval && e.rng.Float64() < e.epsilon {
		return e.rng.IntN(e.Outputs())
	}
	return Greedy(e.Predict(obs))
}

// SelectAction selects an action at the given TimeStep
func (e *EGreedyMLP) SelectAction(t ts.TimeStep) int {
	return e.Act(t.Observation)
}

// Eval sets the policy to evaluation mode
func (e *EGreedyMLP) Eval() { e.eval = true }

// Train sets the policy to training mode. Train shadows the Train
// method of the embedded network; use Network to train the weights.
func (e *EGreedyMLP) Train() { e.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (e *EGreedyMLP) IsEval() bool { return e.eval }

// Network returns the network the policy selects actions with
func (e *EGreedyMLP) Network() network.NeuralNet {
	return e.NeuralNet
}

func (e *EGreedyMLP) String() string {
	return fmt.Sprintf("EGreedyMLP  |  ε = %.4f  |  eval = %v", e.epsilon,
		e.eval)
}

// Greedy returns the index of the largest action value. Ties are
// broken in favour of the first such index.
func Greedy(actionValues *mat.VecDense) int {
	return floats.MaxIdx(actionValues.RawVector().Data)
}
