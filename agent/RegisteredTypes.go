package agent

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	EGreedyDeepQMLP Type = "EGreedyDeepQ-MLP"
)

// Registered types with the package. Once a Type has been registered
// with this map, a Config with that type can be decoded.
//
// No Type's are registered with this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type so
// that upon deserialization of a TypedConfig, Configs of type
// agentType are deserialized into the concrete type of config.
//
// Note that each package is required to register its own Config's
// with an agentType separately. This package registers no agentTypes
// with any Config's. This is to avoid circular imports.
func Register(agentType Type, config Config) {
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// TypedConfig wraps a Config so that it can be YAML marshaled and
// unmarshaled into its underlying concrete type
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig returns a new TypedConfig wrapping c
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

type serializedConfig struct {
	Type   Type      `yaml:"type"`
	Config yaml.Node `yaml:"config"`
}

// MarshalYAML implements the yaml.Marshaler interface
func (t TypedConfig) MarshalYAML() (interface{}, error) {
	var node yaml.Node
	if err := node.Encode(t.Config); err != nil {
		return nil, err
	}
	return serializedConfig{Type: t.Type, Config: node}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. The config
// is decoded into the concrete type registered for its Type, starting
// from that type's zero value.
func (t *TypedConfig) UnmarshalYAML(value *yaml.Node) error {
	var s serializedConfig
	if err := value.Decode(&s); err != nil {
		return err
	}

	ty, found := registeredTypes[s.Type]
	if !found {
		return fmt.Errorf("unmarshalYAML: agent type %q not registered",
			s.Type)
	}

	config := reflect.New(ty)
	if d, ok := config.Interface().(interface{ SetDefaults() }); ok {
		d.SetDefaults()
	}
	if s.Config.Kind != 0 {
		if err := s.Config.Decode(config.Interface()); err != nil {
			return err
		}
	}

	t.Type = s.Type
	t.Config = config.Elem().Interface().(Config)
	return nil
}
