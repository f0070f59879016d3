package envconfig_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/racingline/environment/envconfig"
	"github.com/samuelfneumann/racingline/environment/racetrack"
)

func TestDefaultCreate(t *testing.T) {
	env, step, err := envconfig.Default().Create()
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() {
		t.Errorf("first step: have(%v)", step)
	}
	if env.Track().Len() != racetrack.DefaultLoopPoints {
		t.Errorf("track length: want(%v) have(%v)",
			racetrack.DefaultLoopPoints, env.Track().Len())
	}
	if n := env.ObservationSpec().Shape.Len(); n != racetrack.DefaultRays {
		t.Errorf("observation size: want(%v) have(%v)", racetrack.DefaultRays,
			n)
	}
}

func TestUnmarshalKeepsDefaults(t *testing.T) {
	data := []byte(`
track:
  width: 30
  points:
    - {x: 0, y: 0}
    - {x: 50, y: 0}
    - {x: 50, y: 50}
physics:
  speed: 7
sensor:
  type: Exact
  rays: 3
`)

	var c envconfig.Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}

	want := envconfig.Default()
	want.Track = envconfig.TrackConfig{
		Points:     []envconfig.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}},
		LoopPoints: racetrack.DefaultLoopPoints,
		Width:      30,
	}
	want.Physics.Speed = 7
	want.Sensor.Type = envconfig.Exact
	want.Sensor.Rays = 3

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	env, _, err := c.Create()
	if err != nil {
		t.Fatal(err)
	}
	if env.Car().Velocity != 7 {
		t.Errorf("speed: want(7) have(%v)", env.Car().Velocity)
	}
	if _, ok := env.Sensor().(*racetrack.ExactSensor); !ok {
		t.Errorf("sensor: want(*racetrack.ExactSensor) have(%T)",
			env.Sensor())
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(envconfig.Default())
	if err != nil {
		t.Fatal(err)
	}

	var c envconfig.Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(envconfig.Default(), c); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*envconfig.Config)
	}{
		{"unknown sensor", func(c *envconfig.Config) { c.Sensor.Type = "Lidar" }},
		{"one point", func(c *envconfig.Config) {
			c.Track.Points = []envconfig.Point{{X: 1, Y: 1}}
		}},
		{"zero width", func(c *envconfig.Config) { c.Track.Width = 0 }},
		{"zero step limit", func(c *envconfig.Config) { c.EpisodeSteps = 0 }},
		{"negative dt", func(c *envconfig.Config) { c.Physics.Dt = -0.1 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := envconfig.Default()
			test.modify(&c)
			if _, _, err := c.Create(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
