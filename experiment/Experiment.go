// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/racingline/agent"
	"github.com/samuelfneumann/racingline/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/racingline/environment/envconfig"
	"github.com/samuelfneumann/racingline/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each environment TimeStep to their Trackers, which
// cache the data in RAM to later be saved to disk with Save.
//
// Tick runs a bounded number of agent-environment interactions and
// reports whether an episode finished. RunEpisode runs until the
// current episode ends, and Run runs episodes until the episode limit
// is reached or the context is cancelled.
type Experiment interface {
	Run(ctx context.Context) error
	RunEpisode() (tracker.EpisodeStats, error)
	Tick() (bool, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Trackers added mid-episode start tracking at the
	// next episode.
	Register(t tracker.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type                 Type              `yaml:"type"`
	MaxEpisodes          int               `yaml:"max_episodes"`
	StepsPerTick         int               `yaml:"steps_per_tick"`
	TargetUpdateInterval int               `yaml:"target_update_interval"`
	EnvConf              envconfig.Config  `yaml:"env"`
	AgentConf            agent.TypedConfig `yaml:"agent"`
}

// DefaultConfig returns the default experiment: a DeepQ agent trained
// online on the default race track
func DefaultConfig() Config {
	return Config{
		Type:                 OnlineExp,
		MaxEpisodes:          500,
		StepsPerTick:         1,
		TargetUpdateInterval: 5,
		EnvConf:              envconfig.Default(),
		AgentConf:            agent.NewTypedConfig(deepq.DefaultConfig()),
	}
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. Fields
// missing from the document keep their default values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type config Config
	decoded := config(DefaultConfig())
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*c = Config(decoded)
	return nil
}

// LoadConfig reads an experiment configuration from a YAML file
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v: %w", filename, err)
	}
	return c, c.Validate()
}

// Validate returns an error describing any invalid fields of the
// Config
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("validate: no such experiment type %q", c.Type)
	}
	if c.MaxEpisodes <= 0 || c.StepsPerTick <= 0 ||
		c.TargetUpdateInterval <= 0 {
		return fmt.Errorf("validate: episode counts must be positive\n\t"+
			"have(max_episodes=%v, steps_per_tick=%v, "+
			"target_update_interval=%v)", c.MaxEpisodes, c.StepsPerTick,
			c.TargetUpdateInterval)
	}
	if c.AgentConf.Config == nil {
		return fmt.Errorf("validate: no agent configured")
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %w", err)
	}
	return nil
}

// CreateExp creates the experiment described by the Config
func (c Config) CreateExp(seed uint64, t ...tracker.Tracker) (*Online,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createExp: %w", err)
	}

	env, _, err := c.EnvConf.Create()
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}
	a, err := c.AgentConf.CreateAgent(env, seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create agent: %w", err)
	}

	return NewOnline(env, a, c.MaxEpisodes, c.StepsPerTick,
		c.TargetUpdateInterval, t...)
}
