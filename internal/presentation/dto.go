package presentation

import (
	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
)

// DefinitionDTO represents a component definition for presentation
type DefinitionDTO struct {
	Demo         string   `json:"demo,omitempty" yaml:"demo,omitempty"`
	Handle       uint32   `json:"handle" yaml:"handle"`
	Name         string   `json:"name" yaml:"name"`
	Kind         string   `json:"kind" yaml:"kind"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"` // always present, empty for none
	Debug        string   `json:"debug" yaml:"debug"`
}

// FromDefinition converts a definition to a DTO.
func FromDefinition(demo string, def component.AnyDefinition) DefinitionDTO {
	return DefinitionDTO{
		Demo:         demo,
		Handle:       uint32(def.Handle()),
		Name:         def.Name(),
		Kind:         def.Kind(),
		Capabilities: names(def.Capabilities()),
		Debug:        def.DebugDescriptor(),
	}
}

// FromDefinitions converts definitions in order.
func FromDefinitions(demo string, defs []component.AnyDefinition) []DefinitionDTO {
	out := make([]DefinitionDTO, len(defs))
	for i, def := range defs {
		out[i] = FromDefinition(demo, def)
	}
	return out
}

// CapabilityDTO is the capability set a manager kind declares.
type CapabilityDTO struct {
	Manager      string   `json:"manager"`
	Capabilities []string `json:"capabilities"`
}

// NewCapabilityDTO builds the DTO for one manager kind.
func NewCapabilityDTO(manager string, caps capability.Set) CapabilityDTO {
	return CapabilityDTO{Manager: manager, Capabilities: names(caps)}
}

func names(caps capability.Set) []string {
	n := caps.Names()
	if n == nil {
		return []string{}
	}
	return n
}
