package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/samuelfneumann/racingline/agent"
	env "github.com/samuelfneumann/racingline/environment"
	"github.com/samuelfneumann/racingline/experiment/tracker"
	ts "github.com/samuelfneumann/racingline/timestep"
	"github.com/samuelfneumann/racingline/utils/progressbar"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
//
// Each interaction observes the current TimeStep, selects an action,
// steps the environment, stores the transition and lets the agent
// learn from replay. The target network of the agent is refreshed
// after every targetUpdateInterval'th episode; never mid-episode.
type Online struct {
	env   env.Environment
	agent agent.Agent

	maxEpisodes          int
	stepsPerTick         int
	targetUpdateInterval int

	current       ts.TimeStep // Most recent TimeStep of the episode
	episodes      int         // Finished episodes
	episodeReward float64

	trackers []tracker.Tracker
	pending  []tracker.Tracker // Start tracking at the next episode
	stats    *tracker.Stats
	progress *progressbar.ManualProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The experiment runs maxEpisodes
// episodes, taking at most stepsPerTick environment steps per call to
// Tick. The t parameter is a slice of tracker.Tracker which determine
// what data is saved.
func NewOnline(e env.Environment, a agent.Agent, maxEpisodes, stepsPerTick,
	targetUpdateInterval int, t ...tracker.Tracker) (*Online, error) {
	if e == nil || a == nil {
		return nil, fmt.Errorf("newOnline: nil environment or agent")
	}
	if maxEpisodes <= 0 || stepsPerTick <= 0 || targetUpdateInterval <= 0 {
		return nil, fmt.Errorf("newOnline: episode counts must be "+
			"positive\n\thave(maxEpisodes=%v, stepsPerTick=%v, "+
			"targetUpdateInterval=%v)", maxEpisodes, stepsPerTick,
			targetUpdateInterval)
	}

	o := &Online{
		env:                  e,
		agent:                a,
		maxEpisodes:          maxEpisodes,
		stepsPerTick:         stepsPerTick,
		targetUpdateInterval: targetUpdateInterval,
		pending:              t,
		stats:                tracker.NewStats(),
	}
	o.reset()
	return o, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved. Trackers
// registered mid-episode start tracking at the next episode.
func (o *Online) Register(t tracker.Tracker) {
	if o.current.First() {
		o.trackers = append(o.trackers, t)
		t.Track(o.current)
		return
	}
	o.pending = append(o.pending, t)
}

// ShowProgress draws a progress bar of finished episodes to out after
// every episode
func (o *Online) ShowProgress(out io.Writer, width int) {
	o.progress = progressbar.NewManualProgressBar(out, width, o.maxEpisodes)
	o.progress.Display()
}

// Tick runs up to stepsPerTick interactions with the environment,
// stopping early if the episode ends. Tick returns whether an episode
// finished.
func (o *Online) Tick() (bool, error) {
	for i := 0; i < o.stepsPerTick; i++ {
		done, err := o.step()
		if err != nil {
			return false, err
		}
		if done {
			return true, o.endEpisode()
		}
	}
	return false, nil
}

// RunEpisode runs until the current episode ends and returns its
// statistics
func (o *Online) RunEpisode() (tracker.EpisodeStats, error) {
	for {
		done, err := o.Tick()
		if err != nil {
			return tracker.EpisodeStats{}, err
		}
		if done {
			return o.stats.Recent(1)[0], nil
		}
	}
}

// Run runs episodes until maxEpisodes episodes have finished. The
// context is checked between ticks, and its error is returned if it is
// cancelled first. Any progress bar is closed however Run returns.
func (o *Online) Run(ctx context.Context) error {
	if o.progress != nil {
		defer o.progress.Close()
	}

	for o.episodes < o.maxEpisodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := o.Tick(); err != nil {
			return fmt.Errorf("run: episode %v: %w", o.episodes+1, err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns the statistics of all finished episodes
func (o *Online) Stats() *tracker.Stats {
	return o.stats
}

// Episodes returns the number of finished episodes
func (o *Online) Episodes() int {
	return o.episodes
}

// Done returns whether all episodes have been run
func (o *Online) Done() bool {
	return o.episodes >= o.maxEpisodes
}

// Environment returns the environment the experiment runs on
func (o *Online) Environment() env.Environment {
	return o.env
}

// Agent returns the agent being trained
func (o *Online) Agent() agent.Agent {
	return o.agent
}

// LastTimeStep returns the most recent TimeStep of the current episode
func (o *Online) LastTimeStep() ts.TimeStep {
	return o.current
}

// step runs a single observe → act → step → remember → replay cycle
func (o *Online) step() (bool, error) {
	prev := o.current
	action := o.agent.SelectAction(prev)
	next, done := o.env.Step(action)
	o.track(next)

	if err := o.agent.Remember(ts.NewTransition(prev, action, next)); err != nil {
		return false, fmt.Errorf("step: %w", err)
	}
	if err := o.agent.Replay(); err != nil {
		return false, fmt.Errorf("step: %w", err)
	}

	o.episodeReward += next.Reward
	o.current = next
	return done || next.Last(), nil
}

// endEpisode records the finished episode, refreshes the target network
// on schedule and starts the next episode
func (o *Online) endEpisode() error {
	stats := tracker.EpisodeStats{
		Episode:     o.episodes + 1,
		TotalReward: o.episodeReward,
		Steps:       o.current.Number,
		Epsilon:     o.epsilon(),
		End:         o.current.EndType,
	}
	o.stats.Record(stats)

	if o.progress != nil {
		o.progress.Increment()
		o.progress.SetLabel(fmt.Sprintf("reward %.1f", stats.TotalReward))
		o.progress.Display()
	} else {
		Logf("%v", stats)
	}

	var err error
	if o.episodes%o.targetUpdateInterval == 0 {
		err = o.agent.UpdateTargetModel()
	}
	o.episodes++
	o.reset()

	if err != nil {
		return fmt.Errorf("endEpisode: %w", err)
	}
	return nil
}

// reset starts a new episode
func (o *Online) reset() {
	o.trackers = append(o.trackers, o.pending...)
	o.pending = nil

	o.current = o.env.Reset()
	o.episodeReward = 0
	o.track(o.current)
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// epsilon returns the exploration rate of the agent, or NaN if the
// agent does not explore epsilon greedily
func (o *Online) epsilon() float64 {
	if p, ok := o.agent.(agent.EGreedyPolicy); ok {
		return p.Epsilon()
	}
	return math.NaN()
}
