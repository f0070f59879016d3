package tracker

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	ts "github.com/samuelfneumann/racingline/timestep"
)

// EpisodeStats summarises a single finished episode
type EpisodeStats struct {
	Episode     int     // 1-based episode index
	TotalReward float64 // Sum of rewards over the episode
	Steps       int
	Epsilon     float64 // Exploration rate when the episode ended
	End         ts.EndType
}

func (e EpisodeStats) String() string {
	return fmt.Sprintf("Episode %v  |  Reward: %.2f  |  Steps: %v  |  "+
		"ε: %.3f  |  End: %v", e.Episode, e.TotalReward, e.Steps, e.Epsilon,
		e.End)
}

// Summary holds statistics over a window of episodes
type Summary struct {
	Episodes   int
	MeanReward float64
	StdReward  float64
	MeanSteps  float64
	Ends       map[ts.EndType]int
}

// Stats records the EpisodeStats of every finished episode in an
// experiment
type Stats struct {
	episodes []EpisodeStats
}

// NewStats returns a new, empty Stats
func NewStats() *Stats {
	return &Stats{}
}

// Record records the statistics of a finished episode
func (s *Stats) Record(e EpisodeStats) {
	s.episodes = append(s.episodes, e)
}

// Len returns the number of episodes recorded
func (s *Stats) Len() int {
	return len(s.episodes)
}

// Episodes returns all recorded episodes, oldest first
func (s *Stats) Episodes() []EpisodeStats {
	return append([]EpisodeStats(nil), s.episodes...)
}

// Recent returns the last n recorded episodes, oldest first. If n is
// not positive or exceeds the number of recorded episodes, all
// episodes are returned.
func (s *Stats) Recent(n int) []EpisodeStats {
	if n <= 0 || n > len(s.episodes) {
		n = len(s.episodes)
	}
	return append([]EpisodeStats(nil), s.episodes[len(s.episodes)-n:]...)
}

// Summary summarises the last window episodes, or all episodes if
// window is not positive
func (s *Stats) Summary(window int) Summary {
	recent := s.Recent(window)
	summary := Summary{
		Episodes: len(recent),
		Ends:     make(map[ts.EndType]int),
	}
	if len(recent) == 0 {
		return summary
	}

	rewards := make([]float64, len(recent))
	steps := make([]float64, len(recent))
	for i, e := range recent {
		rewards[i] = e.TotalReward
		steps[i] = float64(e.Steps)
		summary.Ends[e.End]++
	}

	summary.MeanReward, summary.StdReward = stat.MeanStdDev(rewards, nil)
	if len(recent) == 1 {
		summary.StdReward = 0
	}
	summary.MeanSteps = stat.Mean(steps, nil)
	return summary
}

// Save gob encodes the recorded episodes to filename
func (s *Stats) Save(filename string) error {
	if err := save(filename, s.episodes); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// LoadStats loads episodes saved with Stats.Save
func LoadStats(filename string) ([]EpisodeStats, error) {
	var episodes []EpisodeStats
	if err := load(filename, &episodes); err != nil {
		return nil, fmt.Errorf("loadStats: %w", err)
	}
	return episodes, nil
}

// Plot saves a chart of the episodic return to filename. The image
// format is taken from the file extension. A moving average over
// window episodes is drawn over the raw returns when window > 1.
func (s *Stats) Plot(filename string, window int) error {
	if len(s.episodes) == 0 {
		return fmt.Errorf("plot: no episodes recorded")
	}

	p := plot.New()
	p.Title.Text = "Episodic Return"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Total Reward"

	pts := make(plotter.XYs, len(s.episodes))
	for i, e := range s.episodes {
		pts[i] = plotter.XY{X: float64(e.Episode), Y: e.TotalReward}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	line.Color = color.RGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("return", line)

	if window > 1 {
		avg, err := plotter.NewLine(movingAverage(pts, window))
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		avg.Color = color.RGBA{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}
		avg.Width = vg.Points(2)
		p.Add(avg)
		p.Legend.Add(fmt.Sprintf("mean of %v", window), avg)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}

// movingAverage returns the trailing mean of pts over at most window
// points
func movingAverage(pts plotter.XYs, window int) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	sum := 0.0
	for i, pt := range pts {
		sum += pt.Y
		if i >= window {
			sum -= pts[i-window].Y
		}
		out[i] = plotter.XY{X: pt.X, Y: sum / float64(min(i+1, window))}
	}
	return out
}
