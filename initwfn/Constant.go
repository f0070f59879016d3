package initwfn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// ZeroesConfig implements a configuration of a zero weight initializer
type ZeroesConfig struct{}

// NewZeroes returns a new zeroes weight intializer
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// Type returns the type of the weight initializer created using this
// config
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Validate always returns nil
func (z ZeroesConfig) Validate() error { return nil }

// Create creates the weight initializer from this initializer config
func (z ZeroesConfig) Create() Fn {
	return ConstantConfig{0.0}.Create()
}

// OnesConfig implements a configuration of a weight initializer that
// initializes all weights to 1.
type OnesConfig struct{}

// NewOnes returns a new ones weight intializer
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

// Type returns the type of the weight initializer created using this
// config
func (o OnesConfig) Type() Type {
	return Ones
}

// Validate always returns nil
func (o OnesConfig) Validate() error { return nil }

// Create creates the weight initializer from this initializer config
func (o OnesConfig) Create() Fn {
	return ConstantConfig{1.0}.Create()
}

// ConstantConfig implements a configuration of a weight initializer
// that initializes all weights to a constant value.
type ConstantConfig struct {
	Value float64 `yaml:"value"`
}

// NewConstant returns a new constant weight intializer
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{value})
}

// Type returns the type of the weight initializer created using this
// config
func (c ConstantConfig) Type() Type {
	return Constant
}

// Validate returns an error if the constant is not finite
func (c ConstantConfig) Validate() error {
	if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return fmt.Errorf("value must be finite, have(%v)", c.Value)
	}
	return nil
}

// Create creates the weight initializer from this initializer config
func (c ConstantConfig) Create() Fn {
	value := c.Value
	return func(_ *rand.Rand, weights *mat.Dense) {
		fill(weights, func() float64 { return value })
	}
}
