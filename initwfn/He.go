package initwfn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// HeUConfig implements a configuration of the He uniform
// initialization algorithm.
type HeUConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewHeU returns a new He Uniform weight initializer
func NewHeU(gain float64) (*InitWFn, error) {
	config := HeUConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (h HeUConfig) Type() Type {
	return HeU
}

// Validate returns an error if the gain is not positive
func (h HeUConfig) Validate() error {
	return validateGain(h.Gain)
}

// Create returns the weight initialization algorithm. Weights are
// drawn uniformly from ±gain·sqrt(6/fanIn).
func (h HeUConfig) Create() Fn {
	gain := h.Gain
	return func(rng *rand.Rand, weights *mat.Dense) {
		fanIn, _ := weights.Dims()
		limit := gain * math.Sqrt(6.0/float64(fanIn))
		uniform(-limit, limit)(rng, weights)
	}
}

// HeNConfig implements a configuration of the He normal
// initialization algorithm.
type HeNConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewHeN returns a new He Normal weight initializer
func NewHeN(gain float64) (*InitWFn, error) {
	config := HeNConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (h HeNConfig) Type() Type {
	return HeN
}

// Validate returns an error if the gain is not positive
func (h HeNConfig) Validate() error {
	return validateGain(h.Gain)
}

// Create returns the weight initialization algorithm. Weights are
// drawn from a zero-mean gaussian with standard deviation
// gain·sqrt(2/fanIn).
func (h HeNConfig) Create() Fn {
	gain := h.Gain
	return func(rng *rand.Rand, weights *mat.Dense) {
		fanIn, _ := weights.Dims()
		std := gain * math.Sqrt(2.0/float64(fanIn))
		normal(0, std)(rng, weights)
	}
}

func validateGain(gain float64) error {
	if !(gain > 0) || math.IsInf(gain, 1) {
		return fmt.Errorf("gain must be positive and finite, have(%v)", gain)
	}
	return nil
}
