package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an acion, an observation, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Reward
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, or reward in
// an environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewDiscreteActionSpec returns the specification of a 1-dimensional
// discrete action space with actions enumerated 0, 1, ..., n-1
func NewDiscreteActionSpec(n int) Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(n - 1)})

	return NewSpec(shape, Action, lowerBound, upperBound, Discrete)
}

// NumActions returns the number of discrete actions described by an
// action Spec
func (s Spec) NumActions() (int, error) {
	if s.Type != Action || s.Cardinality != Discrete {
		return 0, fmt.Errorf("numActions: spec does not describe " +
			"discrete actions")
	}
	if s.UpperBound.Len() != 1 {
		return 0, fmt.Errorf("numActions: actions must be 1-dimensional")
	}
	if s.LowerBound.AtVec(0) != 0.0 {
		return 0, fmt.Errorf("numActions: actions must be enumerated " +
			"starting from 0")
	}
	return int(s.UpperBound.AtVec(0)) + 1, nil
}
