package environment

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/racingline/timestep"
)

func TestNumActions(t *testing.T) {
	n, err := NewDiscreteActionSpec(3).NumActions()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("want(3) have(%v)", n)
	}

	bounds := mat.NewVecDense(1, []float64{1})
	obs := NewSpec(bounds, Observation, bounds, bounds, Continuous)
	if _, err := obs.NumActions(); err == nil {
		t.Error("expected an error for an observation spec")
	}
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := ts.New(ts.Mid, 0, nil, 2)
	if limit.End(&step) || step.Last() {
		t.Error("episode ended before the step limit")
	}

	step = ts.New(ts.Mid, 0, nil, 3)
	if !limit.End(&step) || !step.Last() || step.EndType != ts.Timeout {
		t.Errorf("episode should time out at the step limit: have(%v)", step)
	}

	// A terminal step keeps its original reason
	step = ts.New(ts.Mid, 0, nil, 3)
	step.SetEnd(ts.TerminalStateReached)
	limit.End(&step)
	if step.EndType != ts.TerminalStateReached {
		t.Errorf("end type: want(%v) have(%v)", ts.TerminalStateReached,
			step.EndType)
	}
}
