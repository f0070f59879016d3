package racetrack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/racingline/environment"
	ts "github.com/samuelfneumann/racingline/timestep"
	"github.com/samuelfneumann/racingline/utils/geometry"
)

const (
	// Default car physics
	DefaultDt       float64 = 0.1
	DefaultSpeed    float64 = 5.0
	DefaultTurnRate float64 = 0.15

	// Discrete actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2
	NumActions        int = MaxDiscreteAction - MinDiscreteAction + 1
)

// Action is a steering command
type Action int

const (
	TurnLeft Action = iota
	Straight
	TurnRight
)

// steer returns the sign of the heading change caused by the action
func (a Action) steer() float64 {
	switch a {
	case TurnLeft:
		return -1.0
	case TurnRight:
		return 1.0
	default:
		return 0.0
	}
}

// Valid returns whether the action is one of the legal steering
// commands
func (a Action) Valid() bool {
	return int(a) >= MinDiscreteAction && int(a) <= MaxDiscreteAction
}

func (a Action) String() string {
	switch a {
	case TurnLeft:
		return "TurnLeft"
	case Straight:
		return "Straight"
	case TurnRight:
		return "TurnRight"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// CarState is the pose of the car. The heading is in radians and is
// never normalized; it grows without bound as the car circles the
// track.
type CarState struct {
	X, Y     float64
	Heading  float64
	Velocity float64
}

// Position returns the position of the car
func (c CarState) Position() geometry.Point {
	return geometry.Point{X: c.X, Y: c.Y}
}

// Direction returns the unit vector the car is pointing along
func (c CarState) Direction() geometry.Point {
	return geometry.Point{X: math.Cos(c.Heading), Y: math.Sin(c.Heading)}
}

// Physics holds the kinematic constants of the car
type Physics struct {
	Dt       float64 `yaml:"dt"`
	Speed    float64 `yaml:"speed"`
	TurnRate float64 `yaml:"turn_rate"`
}

// DefaultPhysics returns the default car physics
func DefaultPhysics() Physics {
	return Physics{Dt: DefaultDt, Speed: DefaultSpeed, TurnRate: DefaultTurnRate}
}

// Validate returns an error if the physics cannot be simulated
func (p Physics) Validate() error {
	if !(p.Dt > 0) || math.IsInf(p.Dt, 1) {
		return fmt.Errorf("validate: dt must be positive and finite, have(%v)",
			p.Dt)
	}
	if !(p.Speed >= 0) || math.IsInf(p.Speed, 1) {
		return fmt.Errorf("validate: speed must be non-negative and "+
			"finite, have(%v)", p.Speed)
	}
	if math.IsNaN(p.TurnRate) || math.IsInf(p.TurnRate, 0) {
		return fmt.Errorf("validate: turn rate must be finite, have(%v)",
			p.TurnRate)
	}
	return nil
}

// Racer implements a top-down racing environment. A car drives at a
// constant speed around a Track and the agent steers it.
//
// Observations are the readings of the configured Sensor: one value in
// [0, 1] per ray, where 1.0 means that the ray found no edge of the
// track within range.
//
// Actions are discrete in (0, 1, 2):
//
//	Action	Meaning
//	  0		Turn left
//	  1		Go straight
//	  2		Turn right
//
// Each action changes the heading by exactly -TurnRate, 0, or
// +TurnRate. Actions other than 0, 1, or 2 result in a panic.
//
// Rewards and episode termination are determined by the Lap task.
// Episodes end when the car leaves the track, completes a lap, or
// reaches the task's step limit.
//
// Racer implements the environment.Environment interface.
type Racer struct {
	*Lap
	track   *Track
	physics Physics
	sensor  Sensor

	car        CarState
	checkpoint int
	lastStep   ts.TimeStep
}

// New creates a new Racer environment and returns it with the first
// TimeStep of the first episode
func New(track *Track, physics Physics, task *Lap,
	sensor Sensor) (*Racer, ts.TimeStep, error) {
	if track == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: nil track")
	}
	if task == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: nil task")
	}
	if sensor == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: nil sensor")
	}
	if err := physics.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	r := &Racer{
		Lap:     task,
		track:   track,
		physics: physics,
		sensor:  sensor,
	}
	firstStep := r.Reset()

	return r, firstStep, nil
}

// Reset places the car on the first centerline point, pointing toward
// the second, and returns the first TimeStep of a new episode
func (r *Racer) Reset() ts.TimeStep {
	start, next := r.track.At(0), r.track.At(1)
	r.car = CarState{
		X:        start.X,
		Y:        start.Y,
		Heading:  math.Atan2(next.Y-start.Y, next.X-start.X),
		Velocity: r.physics.Speed,
	}
	r.checkpoint = 0

	r.lastStep = ts.New(ts.First, 0.0, r.Observations(), 0)
	return r.lastStep
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended. Legal actions are
// in the set {0, 1, 2}. Actions outside this range will cause the
// environment to panic.
func (r *Racer) Step(a int) (ts.TimeStep, bool) {
	action := Action(a)
	if !action.Valid() {
		panic(fmt.Sprintf("illegal action %v ∉ (0, 1, 2)", a))
	}

	return r.Drive(action)
}

// Drive steers the car, moves it forward one tick, and returns the
// resulting TimeStep and whether the episode has ended
func (r *Racer) Drive(a Action) (ts.TimeStep, bool) {
	r.car.Heading += a.steer() * r.physics.TurnRate
	r.car.X += r.car.Velocity * math.Cos(r.car.Heading) * r.physics.Dt
	r.car.Y += r.car.Velocity * math.Sin(r.car.Heading) * r.physics.Dt

	reward, checkpoint, end := r.GetReward(r.track, r.car, r.physics.Dt,
		r.checkpoint)
	r.checkpoint = checkpoint

	nextStep := ts.New(ts.Mid, reward, r.Observations(),
		r.lastStep.Number+1)
	if end != ts.Nil {
		nextStep.SetEnd(end)
	}

	// Check the step limit, adjusting the step type if necessary
	r.End(&nextStep)

	r.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// Observations returns the current sensor readings
func (r *Racer) Observations() *mat.VecDense {
	return r.sensor.Sense(r.track, r.car)
}

// ObservationSpec returns the observation specification of the
// environment
func (r *Racer) ObservationSpec() env.Spec {
	rays := r.sensor.Rays()

	shape := mat.NewVecDense(rays, nil)
	lowerBound := mat.NewVecDense(rays, nil)
	upper := make([]float64, rays)
	for i := range upper {
		upper[i] = readingBounds.Max
	}
	upperBound := mat.NewVecDense(rays, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (r *Racer) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(NumActions)
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (r *Racer) LastTimeStep() ts.TimeStep {
	return r.lastStep
}

// Car returns the current pose of the car
func (r *Racer) Car() CarState {
	return r.car
}

// Checkpoint returns the index of the last centerline point reached
func (r *Racer) Checkpoint() int {
	return r.checkpoint
}

// Steps returns the number of steps taken in the current episode
func (r *Racer) Steps() int {
	return r.lastStep.Number
}

// Track returns the track the car drives on
func (r *Racer) Track() *Track {
	return r.track
}

// Physics returns the car physics
func (r *Racer) Physics() Physics {
	return r.physics
}

// Sensor returns the sensor used to compute observations
func (r *Racer) Sensor() Sensor {
	return r.sensor
}

// RelativeHeading returns the angle between the car's heading and the
// direction of the nearest centerline segment, in [-π, π)
func (r *Racer) RelativeHeading() float64 {
	tangent := r.track.TangentAt(r.car.Position())
	return geometry.NormalizeAngle(r.car.Heading - tangent)
}

// String returns a string representation of the environment
func (r *Racer) String() string {
	str := "Racer  |  Position: (%.2f, %.2f)  |  Heading: %.2f  |  " +
		"Checkpoint: %v/%v  |  Steps: %v"
	return fmt.Sprintf(str, r.car.X, r.car.Y,
		geometry.NormalizeAngle(r.car.Heading), r.checkpoint,
		r.track.Len(), r.Steps())
}
