// Package envconfig provides configuration structs for configuring the
// racetrack environment with default physical parameters and tasks.
// Environment configurations in this package are YAML serializable.
package envconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/racingline/environment/racetrack"
	ts "github.com/samuelfneumann/racingline/timestep"
	"github.com/samuelfneumann/racingline/utils/geometry"
)

// SensorName names the sensor models that can be configured
type SensorName string

// Sensors available for configuration
const (
	Marching SensorName = "Marching"
	Exact    SensorName = "Exact"
)

// Point is a YAML serializable centerline point
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TrackConfig configures the course. If Points is empty, the default
// loop is sampled at LoopPoints points.
type TrackConfig struct {
	Points     []Point `yaml:"points,omitempty"`
	LoopPoints int     `yaml:"loop_points,omitempty"`
	Width      float64 `yaml:"width"`
}

// Create returns the Track described by the configuration
func (t TrackConfig) Create() (*racetrack.Track, error) {
	if len(t.Points) == 0 {
		return racetrack.NewLoop(t.LoopPoints, t.Width)
	}

	points := make([]geometry.Point, len(t.Points))
	for i, p := range t.Points {
		points[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return racetrack.NewTrack(points, t.Width)
}

// SensorConfig configures the car's sensors. Samples is only used by
// the Marching sensor.
type SensorConfig struct {
	Type      SensorName `yaml:"type"`
	Rays      int        `yaml:"rays"`
	RayLength float64    `yaml:"ray_length"`
	FOV       float64    `yaml:"fov"`
	Samples   int        `yaml:"samples,omitempty"`
}

// Create returns the Sensor described by the configuration
func (s SensorConfig) Create() (racetrack.Sensor, error) {
	switch s.Type {
	case Marching:
		return racetrack.NewMarchingSensor(s.Rays, s.RayLength, s.FOV,
			s.Samples)

	case Exact:
		return racetrack.NewExactSensor(s.Rays, s.RayLength, s.FOV)
	}

	return nil, fmt.Errorf("create: no such sensor %q", s.Type)
}

// Config implements a specific configuration of the racetrack
// environment and its Lap task
type Config struct {
	Track        TrackConfig       `yaml:"track"`
	Physics      racetrack.Physics `yaml:"physics"`
	Rewards      racetrack.Rewards `yaml:"rewards"`
	Sensor       SensorConfig      `yaml:"sensor"`
	EpisodeSteps int               `yaml:"episode_steps"`
}

// Default returns the default environment configuration: the twisted
// oval loop with a five-ray marching sensor
func Default() Config {
	return Config{
		Track: TrackConfig{
			LoopPoints: racetrack.DefaultLoopPoints,
			Width:      racetrack.DefaultTrackWidth,
		},
		Physics: racetrack.DefaultPhysics(),
		Rewards: racetrack.DefaultRewards(),
		Sensor: SensorConfig{
			Type:      Marching,
			Rays:      racetrack.DefaultRays,
			RayLength: racetrack.DefaultRayLength,
			FOV:       racetrack.DefaultFOV,
			Samples:   racetrack.DefaultSamples,
		},
		EpisodeSteps: racetrack.DefaultEpisodeSteps,
	}
}

// UnmarshalYAML decodes a Config, starting from the default
// configuration so that omitted fields keep their defaults
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type config Config
	decoded := config(Default())

	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*c = Config(decoded)
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create() (*racetrack.Racer, ts.TimeStep, error) {
	track, err := c.Track.Create()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	sensor, err := c.Sensor.Create()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	task, err := racetrack.NewLap(c.Rewards, c.EpisodeSteps)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	return racetrack.New(track, c.Physics, task, sensor)
}
