package block

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Factory builds a node of the given kind. It is the seam where the host
// document model plugs in: a host may refuse a combination of kind and
// attributes it considers invalid.
type Factory interface {
	Build(kind string, attrs map[string]any, children []Node) (Node, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(kind string, attrs map[string]any, children []Node) (Node, error)

// Build calls f.
func (f FactoryFunc) Build(kind string, attrs map[string]any, children []Node) (Node, error) {
	return f(kind, attrs, children)
}

// ErrEmptyKind is returned when a factory is asked to build a node without a kind.
var ErrEmptyKind = errors.New("block kind is empty")

// DefaultFactory returns a factory that builds plain nodes. It only fails
// when kind is empty.
func DefaultFactory() Factory {
	return FactoryFunc(func(kind string, attrs map[string]any, children []Node) (Node, error) {
		if kind == "" {
			return Node{}, ErrEmptyKind
		}
		if attrs == nil {
			attrs = map[string]any{}
		}
		return Node{Kind: kind, Attributes: attrs, Children: children}, nil
	})
}

// Definition describes a registered block type.
type Definition struct {
	// Name is the block kind, e.g. "core/image".
	Name string `json:"name" yaml:"name" validate:"required"`

	// Required lists attributes a node of this kind cannot be built without.
	Required []string `json:"required,omitempty" yaml:"required,omitempty" validate:"dive,required"`
}

// Registry is a Factory that only builds registered kinds and rejects nodes
// missing a kind's required attributes.
type Registry struct {
	defs map[string]Definition

	// AllowUnknown lets unregistered kinds through unchecked.
	AllowUnknown bool
}

// NewRegistry creates a registry from definitions. Duplicate names are an error.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := validate().Struct(d); err != nil {
			return nil, fmt.Errorf("invalid block definition %q: %w", d.Name, err)
		}
		if _, exists := r.defs[d.Name]; exists {
			return nil, fmt.Errorf("block %q registered twice", d.Name)
		}
		r.defs[d.Name] = d
	}
	return r, nil
}

// registryFile is the YAML structure of a registry file.
type registryFile struct {
	AllowUnknown bool         `yaml:"allowUnknown"`
	Blocks       []Definition `yaml:"blocks"`
}

// LoadRegistry reads block definitions from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	r, err := NewRegistry(f.Blocks...)
	if err != nil {
		return nil, err
	}
	r.AllowUnknown = f.AllowUnknown
	return r, nil
}

// Lookup returns the definition registered for kind.
func (r *Registry) Lookup(kind string) (Definition, bool) {
	d, ok := r.defs[kind]
	return d, ok
}

// Names returns the registered kinds in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build implements Factory.
func (r *Registry) Build(kind string, attrs map[string]any, children []Node) (Node, error) {
	if kind == "" {
		return Node{}, ErrEmptyKind
	}

	def, ok := r.defs[kind]
	if !ok && !r.AllowUnknown {
		return Node{}, fmt.Errorf("block %q is not registered", kind)
	}

	var missing []string
	for _, key := range def.Required {
		if _, present := attrs[key]; !present {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Node{}, fmt.Errorf("block %q requires attributes: %s", kind, strings.Join(missing, ", "))
	}

	if attrs == nil {
		attrs = map[string]any{}
	}
	return Node{Kind: kind, Attributes: attrs, Children: children}, nil
}
