// Package initwfn implements weight initialization algorithms that can
// be YAML serialized into configuration files.
package initwfn

import (
	"fmt"
	"math/rand/v2"
	"reflect"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Type describes different types of InitWFn that are available.
// Type is used to implement a basic type system of InitWFn's.
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
	Gaussian Type = "Gaussian"
	Uniform  Type = "Uniform"
)

// configTypes maps each Type to the concrete Config that describes it
var configTypes = map[Type]reflect.Type{
	GlorotU:  reflect.TypeOf(GlorotUConfig{}),
	GlorotN:  reflect.TypeOf(GlorotNConfig{}),
	HeU:      reflect.TypeOf(HeUConfig{}),
	HeN:      reflect.TypeOf(HeNConfig{}),
	Zeroes:   reflect.TypeOf(ZeroesConfig{}),
	Ones:     reflect.TypeOf(OnesConfig{}),
	Constant: reflect.TypeOf(ConstantConfig{}),
	Gaussian: reflect.TypeOf(GaussianConfig{}),
	Uniform:  reflect.TypeOf(UniformConfig{}),
}

// Fn fills a weight matrix in place. The rows of the matrix index the
// inputs of a layer and the columns index its outputs, so the fan-in
// of the layer is the number of rows.
type Fn func(rng *rand.Rand, weights *mat.Dense)

// InitWFn wraps an Fn so that it can be YAML marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn Fn
	Type
	Config
}

// newInitWFn returns a new InitWFn
func newInitWFn(c Config) (*InitWFn, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new%v: %w", c.Type(), err)
	}

	init := InitWFn{Type: c.Type(), Config: c}
	init.initWFn = init.Config.Create()

	return &init, nil
}

// InitWFn returns the wrapped weight initialization function
func (i *InitWFn) InitWFn() Fn {
	return i.initWFn
}

// Init fills the weights in place
func (i *InitWFn) Init(rng *rand.Rand, weights *mat.Dense) {
	i.initWFn(rng, weights)
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// serialized is the YAML layout of an InitWFn
type serialized struct {
	Type   Type      `yaml:"type"`
	Config yaml.Node `yaml:"config,omitempty"`
}

// MarshalYAML implements the yaml.Marshaler interface
func (i *InitWFn) MarshalYAML() (interface{}, error) {
	var node yaml.Node
	if err := node.Encode(i.Config); err != nil {
		return nil, err
	}
	return serialized{Type: i.Type, Config: node}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (i *InitWFn) UnmarshalYAML(value *yaml.Node) error {
	config, typeName, err := unmarshalConfig(value, configTypes)
	if err != nil {
		return err
	}

	init, err := newInitWFn(config)
	if err != nil {
		return err
	}
	if init.Type != typeName {
		return fmt.Errorf("unmarshalYAML: config of type %v decoded as %v",
			typeName, init.Type)
	}

	*i = *init
	return nil
}

// unmarshalConfig uses reflection to unmarshal a Config into its
// concrete type. Both the Config and its Type are returned.
func unmarshalConfig(value *yaml.Node,
	customTypes map[Type]reflect.Type) (Config, Type, error) {
	var s serialized
	if err := value.Decode(&s); err != nil {
		return nil, "", err
	}

	ty, found := customTypes[s.Type]
	if !found {
		return nil, "", fmt.Errorf("unmarshalConfig: no such InitWFn type "+
			"%q", s.Type)
	}
	config := reflect.New(ty)

	// An empty config node means the config has no parameters
	if s.Config.Kind != 0 {
		if err := s.Config.Decode(config.Interface()); err != nil {
			return nil, "", err
		}
	}

	return config.Elem().Interface().(Config), s.Type, nil
}

// Config implements an InitWFn configuration and can be used to create
// the described weight initialization functions.
type Config interface {
	// Create returns the Fn that the Config describes
	Create() Fn

	// Type returns the type of Fn that is returned
	Type() Type

	// Validate returns an error if the Config cannot create an Fn
	Validate() error
}

// fill sets every weight to a value drawn from sample
func fill(weights *mat.Dense, sample func() float64) {
	r, c := weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			weights.Set(i, j, sample())
		}
	}
}
