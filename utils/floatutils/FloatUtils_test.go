package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-3, 0, 1, 0},
		{7, 0, 1, 1},
		{1, 1, 1, 1},
	}

	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.want {
			t.Errorf("Clip(%v, %v, %v): want(%v) have(%v)", test.value,
				test.min, test.max, test.want, got)
		}
	}

	if got := ClipInterval(2, r1.Interval{Min: -1, Max: 1.5}); got != 1.5 {
		t.Errorf("ClipInterval: want(1.5) have(%v)", got)
	}
}
