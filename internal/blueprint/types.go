package blueprint

import (
	"gopkg.in/yaml.v3"
)

// Document is the typed root of a blueprint. It is rebuilt fresh on every
// parse of the working document and treated as an immutable value afterward;
// healing mutates the raw representation, never these structs.
type Document struct {
	Version string         `yaml:"version" validate:"required"`
	System  System         `yaml:"system"`
	Schemas map[string]any `yaml:"schemas,omitempty"`
	Policy  *Policy        `yaml:"policy,omitempty"`
}

// System holds the components and the bindings between them.
type System struct {
	Name        string      `yaml:"name" validate:"required,component_name"`
	Description string      `yaml:"description,omitempty"`
	Components  []Component `yaml:"components" validate:"required,min=1,dive"`
	Bindings    []Binding   `yaml:"bindings,omitempty" validate:"omitempty,dive"`
}

// Policy is the minimal policy block the healer guarantees exists. Its
// evaluation is out of scope here; the engine only carries it through.
type Policy struct {
	DeliveryGuarantee string `yaml:"delivery_guarantee,omitempty" validate:"omitempty,oneof=at_most_once at_least_once exactly_once"`
	RetryLimit        int    `yaml:"retry_limit,omitempty" validate:"omitempty,min=0,max=100"`
}

// Port describes one named input or output of a component.
type Port struct {
	Name            string `yaml:"name" validate:"required,component_name"`
	SchemaID        string `yaml:"schema,omitempty" validate:"omitempty,schema_id"`
	Required        bool   `yaml:"required,omitempty"`
	BoundaryIngress bool   `yaml:"boundary_ingress,omitempty"`
	BoundaryEgress  bool   `yaml:"boundary_egress,omitempty"`
	ReplyRequired   bool   `yaml:"reply_required,omitempty"`
	SatisfiesReply  bool   `yaml:"satisfies_reply,omitempty"`
	Classification  string `yaml:"data_classification,omitempty"`
}

// Component is one typed processing node of the blueprint graph.
type Component struct {
	Name         string        `yaml:"name" validate:"required,component_name"`
	Type         ComponentKind `yaml:"type" validate:"required"`
	Description  string        `yaml:"description,omitempty"`
	Inputs       []Port        `yaml:"inputs,omitempty" validate:"omitempty,dive"`
	Outputs      []Port        `yaml:"outputs,omitempty" validate:"omitempty,dive"`
	Durable      bool          `yaml:"durable,omitempty"`
	TerminalHint bool          `yaml:"terminal_hint,omitempty"`
	Statefulness string        `yaml:"statefulness,omitempty" validate:"omitempty,oneof=stateless stateful"`
}

// UnmarshalYAML resolves the declared type through KindOf and applies the
// durable default for storage kinds when the field is absent.
func (c *Component) UnmarshalYAML(value *yaml.Node) error {
	type rawComponent struct {
		Name         string `yaml:"name"`
		Type         string `yaml:"type"`
		Description  string `yaml:"description"`
		Inputs       []Port `yaml:"inputs"`
		Outputs      []Port `yaml:"outputs"`
		Durable      *bool  `yaml:"durable"`
		TerminalHint bool   `yaml:"terminal_hint"`
		Statefulness string `yaml:"statefulness"`
	}

	var raw rawComponent
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Name = raw.Name
	c.Description = raw.Description
	c.Inputs = raw.Inputs
	c.Outputs = raw.Outputs
	c.TerminalHint = raw.TerminalHint
	c.Statefulness = raw.Statefulness

	if kind, ok := KindOf(raw.Type); ok {
		c.Type = kind
	} else {
		c.Type = ComponentKind(raw.Type)
	}

	if raw.Durable != nil {
		c.Durable = *raw.Durable
	} else {
		c.Durable = c.Type.DefaultDurable()
	}

	return nil
}

// Output returns the named output port, or the first output when name is
// empty, or nil when the component has none.
func (c *Component) Output(name string) *Port {
	return portByName(c.Outputs, name)
}

// Input returns the named input port with the same fallback rules as Output.
func (c *Component) Input(name string) *Port {
	return portByName(c.Inputs, name)
}

func portByName(ports []Port, name string) *Port {
	if len(ports) == 0 {
		return nil
	}
	if name == "" {
		return &ports[0]
	}
	for i := range ports {
		if ports[i].Name == name {
			return &ports[i]
		}
	}
	return nil
}

// Binding is a directed data connection from one component's output to one
// or more target components' inputs. ToComponents and ToPorts are parallel
// arrays to support fan-out.
type Binding struct {
	FromComponent  string   `yaml:"from_component" validate:"required"`
	FromPort       string   `yaml:"from_port,omitempty"`
	ToComponents   []string `yaml:"to_components" validate:"required,min=1"`
	ToPorts        []string `yaml:"to_ports" validate:"required,min=1"`
	Transformation string   `yaml:"transformation,omitempty"`
	Condition      string   `yaml:"condition,omitempty"`
}

// ComponentMap builds a lookup table for components by name.
func ComponentMap(components []Component) map[string]*Component {
	out := make(map[string]*Component, len(components))
	for i := range components {
		out[components[i].Name] = &components[i]
	}
	return out
}
