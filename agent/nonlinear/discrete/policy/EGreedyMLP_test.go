package policy_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/racingline/agent/nonlinear/discrete/policy"
)

// fixed is a network that always predicts the same action values
type fixed struct {
	values []float64
}

func (f fixed) Features() int { return 2 }
func (f fixed) Outputs() int  { return len(f.values) }

func (f fixed) Predict(mat.Vector) *mat.VecDense {
	return mat.NewVecDense(len(f.values), append([]float64(nil), f.values...))
}

func (f fixed) Train(mat.Vector, int, float64, float64) {}

var obs = mat.NewVecDense(2, []float64{0.5, 0.5})

func TestGreedyTieBreak(t *testing.T) {
	tests := []struct {
		values []float64
		want   int
	}{
		{[]float64{1, 3, 3}, 1},
		{[]float64{2, 2, 2}, 0},
		{[]float64{-1, -5, 0}, 2},
	}

	for _, test := range tests {
		p, err := policy.NewEGreedyMLP(fixed{test.values}, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 10; i++ {
			if a := p.Act(obs); a != test.want {
				t.Errorf("%v: want(%v) have(%v)", test.values, test.want, a)
			}
		}
	}
}

func TestExplore(t *testing.T) {
	p, err := policy.NewEGreedyMLP(fixed{[]float64{0, 10, 0}}, 1, 3)
	if err != nil {
		t.Fatal(err)
	}

	counts := make([]int, 3)
	for i := 0; i < 600; i++ {
		counts[p.Act(obs)]++
	}
	for a, c := range counts {
		if c < 100 {
			t.Errorf("action %v chosen %v/600 times with ε = 1", a, c)
		}
	}

	// Evaluation mode is greedy regardless of epsilon
	p.Eval()
	if !p.IsEval() {
		t.Fatal("policy should be in evaluation mode")
	}
	for i := 0; i < 50; i++ {
		if a := p.Act(obs); a != 1 {
			t.Fatalf("eval action: want(1) have(%v)", a)
		}
	}
	p.Train()
	if p.IsEval() {
		t.Error("policy should be in training mode")
	}
}

func TestEpsilon(t *testing.T) {
	if _, err := policy.NewEGreedyMLP(fixed{[]float64{0}}, 1.5, 1); err == nil {
		t.Error("expected an error for ε > 1")
	}
	if _, err := policy.NewEGreedyMLP(nil, 0.1, 1); err == nil {
		t.Error("expected an error for a nil network")
	}

	p, err := policy.NewEGreedyMLP(fixed{[]float64{0}}, 0.3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Epsilon() != 0.3 {
		t.Errorf("want(0.3) have(%v)", p.Epsilon())
	}
	p.SetEpsilon(-2)
	if p.Epsilon() != 0 {
		t.Errorf("epsilon should be clipped to 0, have(%v)", p.Epsilon())
	}
}
