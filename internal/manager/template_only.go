package manager

import (
	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
)

// TemplateOnly is a component with a template and nothing else.
type TemplateOnly struct {
	Name string
}

// TemplateOnlyComponent returns a new template-only component value. Each
// call returns a distinct value.
func TemplateOnlyComponent(name string) *TemplateOnly {
	return &TemplateOnly{Name: name}
}

func (t *TemplateOnly) String() string { return "template-only " + t.Name }

type templateOnlyState struct {
	name      string
	destroyed bool
}

// TemplateOnlyManager manages *TemplateOnly components. It declares no
// capabilities and its components have no `this`.
type TemplateOnlyManager struct {
	caps capability.Set
}

var _ component.Manager[*TemplateOnly] = (*TemplateOnlyManager)(nil)

func NewTemplateOnlyManager() *TemplateOnlyManager {
	return &TemplateOnlyManager{caps: capability.New()}
}

func (m *TemplateOnlyManager) Kind() string { return "template-only" }

func (m *TemplateOnlyManager) Capabilities(*TemplateOnly) capability.Set { return m.caps }

func (m *TemplateOnlyManager) Create(_ any, t *TemplateOnly, _ component.Args) (component.State, error) {
	name := ""
	if t != nil {
		name = t.Name
	}
	return &templateOnlyState{name: name}, nil
}

func (m *TemplateOnlyManager) Self(component.State) any { return nil }

func (m *TemplateOnlyManager) Destroy(state component.State) error {
	s, ok := state.(*templateOnlyState)
	if !ok || s == nil {
		return ErrForeignState
	}
	if s.destroyed {
		return ErrAlreadyDestroyed
	}
	s.destroyed = true
	return nil
}
