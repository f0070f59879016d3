package initwfn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// GlorotUConfig implements a configuration of the Glorot Uniform
// initialization algorithm.
type GlorotUConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	config := GlorotUConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Validate returns an error if the gain is not positive
func (g GlorotUConfig) Validate() error {
	return validateGain(g.Gain)
}

// Create returns the weight initialization algorithm. Weights are
// drawn uniformly from ±gain·sqrt(6/(fanIn+fanOut)).
func (g GlorotUConfig) Create() Fn {
	gain := g.Gain
	return func(rng *rand.Rand, weights *mat.Dense) {
		fanIn, fanOut := weights.Dims()
		limit := gain * math.Sqrt(6.0/float64(fanIn+fanOut))
		uniform(-limit, limit)(rng, weights)
	}
}

// GlorotNConfig implements a configuration of the Glorot Normal
// initialization algorithm.
type GlorotNConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewGlorotN returns a new Glorot Normal weight initializer.
func NewGlorotN(gain float64) (*InitWFn, error) {
	config := GlorotNConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by the
// configuration.
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Validate returns an error if the gain is not positive
func (g GlorotNConfig) Validate() error {
	return validateGain(g.Gain)
}

// Create returns the weight initialization algorithm
func (g GlorotNConfig) Create() Fn {
	gain := g.Gain
	return func(rng *rand.Rand, weights *mat.Dense) {
		fanIn, fanOut := weights.Dims()
		std := gain * math.Sqrt(2.0/float64(fanIn+fanOut))
		normal(0, std)(rng, weights)
	}
}
