package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/racingline/environment/racetrack"
	"github.com/samuelfneumann/racingline/experiment"
	"github.com/samuelfneumann/racingline/experiment/tracker"
)

func main() {
	configFile := flag.String("config", "", "YAML experiment configuration "+
		"(default configuration if empty)")
	seed := flag.Uint64("seed", 192382, "seed for the agent")
	episodes := flag.Int("episodes", 0, "number of training episodes "+
		"(overrides the configuration if positive)")
	outDir := flag.String("out", "out", "directory to save data to")
	window := flag.Int("window", 50, "episodes in the reward moving average")
	frameEvery := flag.Int("frame-every", 50, "steps between rendered "+
		"frames of the greedy evaluation episode")
	progress := flag.Bool("progress", false, "show a progress bar instead "+
		"of per-episode logs")
	dumpConfig := flag.Bool("dump-config", false, "print the configuration "+
		"and exit")
	flag.Parse()

	c := experiment.DefaultConfig()
	if *configFile != "" {
		var err error
		if c, err = experiment.LoadConfig(*configFile); err != nil {
			log.Fatalf("could not load configuration: %v", err)
		}
	}
	if *episodes > 0 {
		c.MaxEpisodes = *episodes
	}

	if *dumpConfig {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			log.Fatalf("could not encode configuration: %v", err)
		}
		return
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("could not create output directory: %v", err)
	}

	exp, err := c.CreateExp(
		*seed,
		tracker.NewReturn(filepath.Join(*outDir, "return.bin")),
		tracker.NewEpisodeLength(filepath.Join(*outDir, "length.bin")),
	)
	if err != nil {
		log.Fatal(err)
	}
	if *progress {
		experiment.SetLogger(nil)
		exp.ShowProgress(os.Stderr, 40)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := exp.Run(ctx); err != nil {
		log.Printf("training stopped: %v", err)
	}

	if err := exp.Save(); err != nil {
		log.Fatalf("could not save tracked data: %v", err)
	}
	stats := exp.Stats()
	if stats.Len() == 0 {
		return
	}
	if err := stats.Save(filepath.Join(*outDir, "stats.bin")); err != nil {
		log.Fatal(err)
	}
	if err := stats.Plot(filepath.Join(*outDir, "reward.png"),
		*window); err != nil {
		log.Fatal(err)
	}

	summary := stats.Summary(*window)
	fmt.Printf("last %v episodes: reward %.2f ± %.2f, %.1f steps, ends %v\n",
		summary.Episodes, summary.MeanReward, summary.StdReward,
		summary.MeanSteps, summary.Ends)

	racer, ok := exp.Environment().(*racetrack.Racer)
	if !ok {
		return
	}
	if err := evaluate(exp, racer, *outDir, *frameEvery); err != nil {
		log.Fatalf("could not evaluate agent: %v", err)
	}
}

// evaluate drives one greedy episode, rendering a frame every
// frameEvery steps and the final step
func evaluate(exp *experiment.Online, racer *racetrack.Racer, outDir string,
	frameEvery int) error {
	a := exp.Agent()
	a.Eval()
	defer a.Train()

	step := racer.Reset()
	frame := 0
	for !step.Last() {
		if frameEvery > 0 && step.Number%frameEvery == 0 {
			name := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", frame))
			if err := racer.Render(name, 600, 450); err != nil {
				return err
			}
			frame++
		}
		step, _ = racer.Step(a.SelectAction(step))
	}

	fmt.Printf("evaluation: %v steps, checkpoint %v/%v, end %v\n",
		step.Number, racer.Checkpoint(), racer.Track().Len(), step.EndType)
	return racer.Render(filepath.Join(outDir, "final.png"), 600, 450)
}
