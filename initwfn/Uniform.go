package initwfn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// UniformConfig implements a configuration of a weight initializer
// that draws weights from a uniform distribution
type UniformConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) (*InitWFn, error) {
	config := UniformConfig{
		Low:  low,
		High: high,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (u UniformConfig) Type() Type {
	return Uniform
}

// Validate returns an error if the interval is empty or unbounded
func (u UniformConfig) Validate() error {
	if math.IsInf(u.Low, 0) || math.IsInf(u.High, 0) || !(u.Low <= u.High) {
		return fmt.Errorf("interval must be finite with low <= high, "+
			"have[%v, %v]", u.Low, u.High)
	}
	return nil
}

// Create returns the weight initialization algorithm
func (u UniformConfig) Create() Fn {
	return uniform(u.Low, u.High)
}

func uniform(low, high float64) Fn {
	return func(rng *rand.Rand, weights *mat.Dense) {
		dist := distuv.Uniform{Min: low, Max: high, Src: rng}
		fill(weights, dist.Rand)
	}
}

func normal(mean, std float64) Fn {
	return func(rng *rand.Rand, weights *mat.Dense) {
		dist := distuv.Normal{Mu: mean, Sigma: std, Src: rng}
		fill(weights, dist.Rand)
	}
}
