package network

import "math"

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
)

// Activation represents an elementwise activation function and its
// derivative
type Activation struct {
	activationType
	f func(x float64) float64

	// df returns the derivative at pre-activation x
	df func(x float64) float64
}

// fwd applies the Activation to a single pre-activation
func (a *Activation) fwd(x float64) float64 {
	return a.f(x)
}

// grad returns the derivative of the Activation at a single
// pre-activation
func (a *Activation) grad(x float64) float64 {
	return a.df(x)
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f:              func(x float64) float64 { return x },
		df:             func(float64) float64 { return 1.0 },
	}
}

// ReLU returns a ReLU *Activation. The derivative at 0 is taken to be
// 0.
func ReLU() *Activation {
	return &Activation{
		activationType: relu,
		f:              func(x float64) float64 { return math.Max(0, x) },
		df: func(x float64) float64 {
			if x > 0 {
				return 1.0
			}
			return 0.0
		},
	}
}
