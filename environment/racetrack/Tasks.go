package racetrack

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/racingline/environment"
	ts "github.com/samuelfneumann/racingline/timestep"
	"github.com/samuelfneumann/racingline/utils/geometry"
)

const (
	// Default episode step cap
	DefaultEpisodeSteps int = 1000
)

// Rewards holds the reward shaping constants of the Lap task
type Rewards struct {
	Crash           float64 `yaml:"crash"`
	Alive           float64 `yaml:"alive"`
	ProgressWeight  float64 `yaml:"progress_weight"`
	DeviationWeight float64 `yaml:"deviation_weight"`
	Checkpoint      float64 `yaml:"checkpoint"`
	Lap             float64 `yaml:"lap"`
}

// DefaultRewards returns the default reward shaping constants
func DefaultRewards() Rewards {
	return Rewards{
		Crash:           -10.0,
		Alive:           0.1,
		ProgressWeight:  1.5,
		DeviationWeight: 0.1,
		Checkpoint:      2.0,
		Lap:             50.0,
	}
}

// Validate returns an error if any reward constant is not finite
func (r Rewards) Validate() error {
	values := []float64{r.Crash, r.Alive, r.ProgressWeight,
		r.DeviationWeight, r.Checkpoint, r.Lap}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("validate: reward constants must be finite, "+
				"have(%+v)", r)
		}
	}
	return nil
}

// Lap implements the task of driving a full lap of the track without
// leaving it.
//
// While on the track, the car receives a small bonus every tick, a
// reward for moving closer to the next checkpoint, and a penalty
// proportional to its distance from the centerline as a fraction of
// the half-width. Reaching the next checkpoint (coming within one
// track width of it) replaces the progress reward with a fixed bonus.
//
// Leaving the track ends the episode with a crash penalty. Reaching
// the second-to-last checkpoint completes the lap, which ends the
// episode with a lap bonus. Episodes also end at a step limit.
type Lap struct {
	env.StepLimit
	rewards Rewards
}

// NewLap creates a new Lap task with the given reward constants and
// step limit
func NewLap(rewards Rewards, episodeSteps int) (*Lap, error) {
	if episodeSteps <= 0 {
		return nil, fmt.Errorf("newLap: episode steps must be positive, "+
			"have(%v)", episodeSteps)
	}
	if err := rewards.Validate(); err != nil {
		return nil, fmt.Errorf("newLap: %w", err)
	}

	return &Lap{env.NewStepLimit(episodeSteps), rewards}, nil
}

// Rewards returns the reward constants of the task
func (l *Lap) Rewards() Rewards {
	return l.rewards
}

// GetReward returns the reward for the car arriving at its current
// pose, the new checkpoint index, and the reason the episode ended, if
// it did. The checkpoint argument is the checkpoint index before the
// car moved.
//
// The car's previous position is reconstructed from its current
// heading, so a turning car measures progress along its new heading.
func (l *Lap) GetReward(track *Track, car CarState, dt float64,
	checkpoint int) (float64, int, ts.EndType) {
	pos := car.Position()

	distance := track.DistanceToCenterline(pos)
	if distance > track.HalfWidth() {
		return l.rewards.Crash, checkpoint, ts.TerminalStateReached
	}

	progress, checkpoint := l.progress(track, car, dt, checkpoint)

	reward := l.rewards.Alive
	reward += l.rewards.ProgressWeight * progress
	reward -= l.rewards.DeviationWeight * (distance / track.HalfWidth())

	if checkpoint >= track.Len()-2 {
		return reward + l.rewards.Lap, checkpoint, ts.TerminalStateReached
	}
	return reward, checkpoint, ts.Nil
}

// progress returns how much closer the car moved to the next
// checkpoint and the checkpoint index after the move
func (l *Lap) progress(track *Track, car CarState, dt float64,
	checkpoint int) (float64, int) {
	next := (checkpoint + 1) % track.Len()
	target := track.At(next)

	pos := car.Position()
	prev := geometry.Point{
		X: car.X - math.Cos(car.Heading)*car.Velocity*dt,
		Y: car.Y - math.Sin(car.Heading)*car.Velocity*dt,
	}

	dist := geometry.Distance(pos, target)
	if dist < track.Width() {
		return l.rewards.Checkpoint, next
	}
	return geometry.Distance(prev, target) - dist, checkpoint
}
