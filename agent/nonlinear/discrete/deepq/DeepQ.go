// Package deepq implements the deep Q-learning algorithm with an
// experience replay buffer and a target network
package deepq

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/racingline/agent/nonlinear/discrete/policy"
	"github.com/samuelfneumann/racingline/environment"
	"github.com/samuelfneumann/racingline/expreplay"
	"github.com/samuelfneumann/racingline/network"
	ts "github.com/samuelfneumann/racingline/timestep"
)

// DeepQ implements the deep Q-learning algorithm using the squared TD
// error on single transitions:
//
//	Q(s, a) <- Q(s, a) - α ∇½(Q(s, a) - y)²
//	y = r                        if s' is terminal
//	y = r + γ max_a' Q̂(s', a')   otherwise
//
// where Q̂ is the target network. The target network only changes when
// UpdateTargetModel is called.
type DeepQ struct {
	// Behaviour policy, acting with the online network
	behaviourPolicy *policy.EGreedyMLP

	online    *network.MLP // Network whose weights are adapted
	targetNet *network.MLP // Network that provides the update target

	replay expreplay.ExperienceReplayer

	gamma        float64
	epsilonMin   float64
	epsilonDecay float64
	learningRate float64
	batchSize    int
}

// New creates and returns a new DeepQ agent. The network input and
// output sizes are taken from the environment's observation and action
// specifications.
func New(env environment.Environment, config Config,
	seed uint64) (*DeepQ, error) {
	if env == nil {
		return nil, fmt.Errorf("new: nil environment")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	numActions, err := env.ActionSpec().NumActions()
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	features := env.ObservationSpec().Shape.Len()

	rng := rand.New(rand.NewPCG(seed, ^seed))
	online, err := network.NewMLP(features, config.HiddenSize, numActions,
		config.InitWFn, rng)
	if err != nil {
		return nil, fmt.Errorf("new: could not create network: %w", err)
	}

	behaviourPolicy, err := policy.NewEGreedyMLP(online, config.EpsilonStart,
		rng.Uint64())
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy: %w", err)
	}

	replayConfig := expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		BatchSize:         config.BatchSize,
		MinReplayCapacity: config.BatchSize,
		MaxReplayCapacity: config.ReplayCapacity,
	}
	replay, err := replayConfig.Create(features, rng.Uint64())
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience replay "+
			"buffer: %w", err)
	}

	return &DeepQ{
		behaviourPolicy: behaviourPolicy,
		online:          online,
		targetNet:       online.Clone(),
		replay:          replay,
		gamma:           config.Gamma,
		epsilonMin:      config.EpsilonMin,
		epsilonDecay:    config.EpsilonDecay,
		learningRate:    config.LearningRate,
		batchSize:       config.BatchSize,
	}, nil
}

// Act selects an action for an observation using the behaviour policy
func (d *DeepQ) Act(obs mat.Vector) int {
	return d.behaviourPolicy.Act(obs)
}

// SelectAction selects an action at the given TimeStep
func (d *DeepQ) SelectAction(t ts.TimeStep) int {
	return d.behaviourPolicy.SelectAction(t)
}

// Remember stores a transition in the replay buffer
func (d *DeepQ) Remember(t ts.Transition) error {
	if err := d.replay.Add(t); err != nil {
		return fmt.Errorf("remember: %w", err)
	}
	return nil
}

// Replay samples a batch of transitions and takes one gradient step on
// the online network for each, then decays epsilon. If the replay
// buffer holds fewer transitions than a batch, Replay does nothing.
func (d *DeepQ) Replay() error {
	if d.replay.Capacity() < d.batchSize {
		return nil
	}

	batch, err := d.replay.Sample()
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, t := range batch {
		target := t.Reward
		if !t.Done {
			target += d.gamma * mat.Max(d.targetNet.Predict(t.NextState))
		}
		d.online.Train(t.State, t.Action, target, d.learningRate)
	}

	ε := max(d.epsilonMin, d.behaviourPolicy.Epsilon()*d.epsilonDecay)
	d.behaviourPolicy.SetEpsilon(ε)
	return nil
}

// UpdateTargetModel sets the target network's weights to a copy of the
// online network's weights
func (d *DeepQ) UpdateTargetModel() error {
	if err := d.targetNet.CopyFrom(d.online); err != nil {
		return fmt.Errorf("updateTargetModel: %w", err)
	}
	return nil
}

// Epsilon returns the current exploration probability
func (d *DeepQ) Epsilon() float64 {
	return d.behaviourPolicy.Epsilon()
}

// SetEpsilon sets the exploration probability of the behaviour policy
func (d *DeepQ) SetEpsilon(ε float64) {
	d.behaviourPolicy.SetEpsilon(ε)
}

// Network returns the online network
func (d *DeepQ) Network() *network.MLP {
	return d.online
}

// TargetNetwork returns the target network
func (d *DeepQ) TargetNetwork() *network.MLP {
	return d.targetNet
}

// Memory returns the number of transitions in the replay buffer
func (d *DeepQ) Memory() int {
	return d.replay.Capacity()
}

// Eval sets the agent to evaluation mode
func (d *DeepQ) Eval() {
	d.behaviourPolicy.Eval()
}

// Train sets the agent to training mode
func (d *DeepQ) Train() {
	d.behaviourPolicy.Train()
}

// IsEval returns whether the agent is in evaluation mode
func (d *DeepQ) IsEval() bool {
	return d.behaviourPolicy.IsEval()
}

func (d *DeepQ) String() string {
	return fmt.Sprintf("DeepQ  |  %v  |  ε = %.4f  |  memory = %v",
		d.online, d.Epsilon(), d.Memory())
}
