package tracker_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samuelfneumann/racingline/experiment/tracker"
	ts "github.com/samuelfneumann/racingline/timestep"
)

// episode returns the TimeSteps of an episode with the given rewards
// after the first step
func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, nil, 0)}
	for i, r := range rewards {
		step := ts.New(ts.Mid, r, nil, i+1)
		if i == len(rewards)-1 {
			step.SetEnd(ts.TerminalStateReached)
		}
		steps = append(steps, step)
	}
	return steps
}

func track(t tracker.Tracker, episodes ...[]ts.TimeStep) {
	for _, e := range episodes {
		for _, step := range e {
			t.Track(step)
		}
	}
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "return.bin")
	r := tracker.NewReturn(filename)

	track(r, episode(1, 2, 3), episode(-10), episode(0.5, 0.5))
	r.Track(ts.New(ts.First, 0, nil, 0)) // Unfinished

	want := []float64{6, -10, 1}
	if diff := cmp.Diff(want, r.Returns()); diff != "" {
		t.Errorf("returns (-want +got):\n%s", diff)
	}

	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("saved returns (-want +got):\n%s", diff)
	}
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "length.bin")
	e := tracker.NewEpisodeLength(filename)

	track(e, episode(1, 2, 3), episode(1))
	if diff := cmp.Diff([]float64{3, 1}, e.Lengths()); diff != "" {
		t.Errorf("lengths (-want +got):\n%s", diff)
	}

	if err := e.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := tracker.LoadData(filename); err != nil {
		t.Error(err)
	}
}

func TestNonSequentialPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for non-sequential timesteps")
		}
	}()

	r := tracker.NewReturn("")
	r.Track(ts.New(ts.First, 0, nil, 0))
	r.Track(ts.New(ts.Mid, 1, nil, 2))
}

func TestLoadMissing(t *testing.T) {
	if _, err := tracker.LoadData(filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestStats(t *testing.T) {
	s := tracker.NewStats()
	if sum := s.Summary(10); sum.Episodes != 0 {
		t.Errorf("empty summary: have(%+v)", sum)
	}
	if err := s.Plot(filepath.Join(t.TempDir(), "x.png"), 5); err == nil {
		t.Error("expected an error plotting no episodes")
	}

	ends := []ts.EndType{ts.TerminalStateReached, ts.TerminalStateReached,
		ts.Timeout, ts.TerminalStateReached}
	for i, end := range ends {
		s.Record(tracker.EpisodeStats{
			Episode:     i + 1,
			TotalReward: float64(2 * i),
			Steps:       10 * (i + 1),
			Epsilon:     1 / float64(i+1),
			End:         end,
		})
	}

	sum := s.Summary(3)
	if sum.Episodes != 3 || sum.MeanReward != 4 || sum.MeanSteps != 30 {
		t.Errorf("summary: have(%+v)", sum)
	}
	if math.Abs(sum.StdReward-2) > 1e-12 {
		t.Errorf("std: want(2) have(%v)", sum.StdReward)
	}
	if sum.Ends[ts.Timeout] != 1 ||
		sum.Ends[ts.TerminalStateReached] != 2 {
		t.Errorf("ends: have(%v)", sum.Ends)
	}
	if s.Summary(1).StdReward != 0 {
		t.Error("a single episode has no spread")
	}
	if len(s.Recent(0)) != 4 || s.Recent(2)[0].Episode != 3 {
		t.Errorf("recent: have(%v)", s.Recent(2))
	}

	dir := t.TempDir()
	filename := filepath.Join(dir, "stats.bin")
	if err := s.Save(filename); err != nil {
		t.Fatal(err)
	}
	loaded, err := tracker.LoadStats(filename)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.Episodes(), loaded); diff != "" {
		t.Errorf("loaded stats (-want +got):\n%s", diff)
	}

	chart := filepath.Join(dir, "reward.png")
	if err := s.Plot(chart, 2); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(chart); err != nil || info.Size() == 0 {
		t.Errorf("chart not written: %v", err)
	}
}
