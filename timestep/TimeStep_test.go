package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewTransition(t *testing.T) {
	s := New(First, 0, mat.NewVecDense(2, []float64{1, 2}), 0)
	next := New(Mid, -1.5, mat.NewVecDense(2, []float64{3, 4}), 1)

	tr := NewTransition(s, 2, next)
	if tr.Action != 2 || tr.Reward != -1.5 || tr.Done {
		t.Errorf("transition: have(%+v)", tr)
	}
	if tr.State != s.Observation || tr.NextState != next.Observation {
		t.Error("transition should reference the step observations")
	}

	next.SetEnd(TerminalStateReached)
	if !NewTransition(s, 0, next).Done {
		t.Error("a transition into the last step is done")
	}
}

func TestSetEnd(t *testing.T) {
	step := New(Mid, 0, nil, 5)
	step.SetEnd(Timeout)
	step.SetEnd(TerminalStateReached)

	if !step.Last() || step.EndType != Timeout {
		t.Errorf("first end reason should be kept: have(%v)", step)
	}
}
