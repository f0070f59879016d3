package deepq

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/racingline/agent"
	"github.com/samuelfneumann/racingline/environment"
	"github.com/samuelfneumann/racingline/initwfn"
)

func init() {
	// Register the Config type so that it can be decoded through
	// agent.TypedConfig
	agent.Register(agent.EGreedyDeepQMLP, Config{})
}

// Config implements a configuration for the DeepQ agent
type Config struct {
	Gamma        float64 `yaml:"gamma"`         // Discount factor
	EpsilonStart float64 `yaml:"epsilon_start"` // Initial behaviour ε
	EpsilonMin   float64 `yaml:"epsilon_min"`   // Floor of ε
	EpsilonDecay float64 `yaml:"epsilon_decay"` // ε multiplier per Replay
	LearningRate float64 `yaml:"learning_rate"`

	// Experience replay parameters
	BatchSize      int `yaml:"batch_size"`
	ReplayCapacity int `yaml:"replay_capacity"`

	HiddenSize int              `yaml:"hidden_size"`
	InitWFn    *initwfn.InitWFn `yaml:"init"`
}

// DefaultConfig returns the default DeepQ configuration
func DefaultConfig() Config {
	init, err := initwfn.NewHeN(1.0)
	if err != nil {
		panic(fmt.Sprintf("defaultConfig: %v", err))
	}

	return Config{
		Gamma:          0.95,
		EpsilonStart:   1.0,
		EpsilonMin:     0.05,
		EpsilonDecay:   0.995,
		LearningRate:   0.001,
		BatchSize:      32,
		ReplayCapacity: 2000,
		HiddenSize:     24,
		InitWFn:        init,
	}
}

// SetDefaults sets c to the default configuration. Fields decoded
// afterwards overwrite the defaults.
func (c *Config) SetDefaults() {
	*c = DefaultConfig()
}

// Validate checks a Config for invalid fields
func (c Config) Validate() error {
	if !inUnit(c.Gamma) {
		return fmt.Errorf("validate: discount must be in [0, 1]\n\t"+
			"have(%v)", c.Gamma)
	}
	if !inUnit(c.EpsilonStart) || !inUnit(c.EpsilonMin) {
		return fmt.Errorf("validate: epsilon must be in [0, 1]\n\t"+
			"have(start=%v, min=%v)", c.EpsilonStart, c.EpsilonMin)
	}
	if c.EpsilonMin > c.EpsilonStart {
		return fmt.Errorf("validate: epsilon floor above initial epsilon"+
			"\n\twant(%v ≤ %v)", c.EpsilonMin, c.EpsilonStart)
	}
	if !(c.EpsilonDecay > 0 && c.EpsilonDecay <= 1) {
		return fmt.Errorf("validate: epsilon decay must be in (0, 1]\n\t"+
			"have(%v)", c.EpsilonDecay)
	}
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("validate: learning rate must be positive\n\t"+
			"have(%v)", c.LearningRate)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("validate: batch size must be positive\n\t"+
			"have(%v)", c.BatchSize)
	}
	if c.ReplayCapacity < c.BatchSize {
		return fmt.Errorf("validate: replay capacity smaller than batch "+
			"size\n\twant(≥ %v)\n\thave(%v)", c.BatchSize, c.ReplayCapacity)
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("validate: hidden layer must have units\n\t"+
			"have(%v)", c.HiddenSize)
	}
	return nil
}

// CreateAgent creates a new DeepQ agent based on the configuration
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// ValidAgent returns true if the argument agent can be constructed
// from the Config and false otherwise
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*DeepQ)
	return ok
}

// Type returns the type of agent that can be constructed from the
// Config
func (c Config) Type() agent.Type {
	return agent.EGreedyDeepQMLP
}

func inUnit(x float64) bool {
	return x >= 0 && x <= 1
}
