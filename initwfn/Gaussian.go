package initwfn

import (
	"fmt"
	"math"
)

// GaussianConfig implements a configuration of a weight initializer
// that draws weights from a gaussian distribution
type GaussianConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	config := GaussianConfig{
		Mean:   mean,
		StdDev: stddev,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GaussianConfig) Type() Type {
	return Gaussian
}

// Validate returns an error if the distribution is not well defined
func (g GaussianConfig) Validate() error {
	if math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
		return fmt.Errorf("mean must be finite, have(%v)", g.Mean)
	}
	if !(g.StdDev >= 0) || math.IsInf(g.StdDev, 1) {
		return fmt.Errorf("standard deviation must be non-negative and "+
			"finite, have(%v)", g.StdDev)
	}
	return nil
}

// Create returns the weight initialization algorithm
func (g GaussianConfig) Create() Fn {
	return normal(g.Mean, g.StdDev)
}
