package manager

import (
	"fmt"

	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
)

// Function is a function-based component. Setup computes the template's
// `this` from the args and runs again whenever the args change.
type Function struct {
	Name     string
	Setup    func(args component.Args) (any, error)
	Defaults component.Args
}

func (f *Function) String() string { return "function " + f.Name }

type functionState struct {
	fn        *Function
	self      any
	destroyed bool
}

// FunctionManager manages *Function components.
type FunctionManager struct {
	caps capability.Set
}

var (
	_ component.Manager[*Function]      = (*FunctionManager)(nil)
	_ component.ArgsPreparer[*Function] = (*FunctionManager)(nil)
	_ component.Updater                 = (*FunctionManager)(nil)
)

// NewFunctionManager creates a function manager.
func NewFunctionManager() *FunctionManager {
	return &FunctionManager{caps: capability.New(
		capability.PrepareArgs,
		capability.CreateArgs,
		capability.UpdateHook,
	)}
}

func (m *FunctionManager) Kind() string { return "function" }

func (m *FunctionManager) Capabilities(*Function) capability.Set { return m.caps }

// PrepareArgs fills in missing defaults. When nothing is missing the same
// map is returned.
func (m *FunctionManager) PrepareArgs(f *Function, args component.Args) (component.Args, error) {
	var out component.Args
	for name, v := range f.Defaults {
		if _, ok := args[name]; ok {
			continue
		}
		if out == nil {
			out = args.Clone()
		}
		out[name] = v
	}
	if out == nil {
		return args, nil
	}
	return out, nil
}

func (m *FunctionManager) Create(owner any, f *Function, args component.Args) (component.State, error) {
	if f == nil {
		return nil, ErrNilConstructor
	}
	s := &functionState{fn: f}
	if err := s.setup(args); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *FunctionManager) Self(state component.State) any {
	s, ok := state.(*functionState)
	if !ok {
		return nil
	}
	return s.self
}

func (m *FunctionManager) Update(state component.State, args component.Args) error {
	s, err := m.live(state)
	if err != nil {
		return err
	}
	return s.setup(args)
}

func (m *FunctionManager) Destroy(state component.State) error {
	s, err := m.live(state)
	if err != nil {
		return err
	}
	s.destroyed = true
	s.self = nil
	return nil
}

func (m *FunctionManager) live(state component.State) (*functionState, error) {
	s, ok := state.(*functionState)
	if !ok || s == nil {
		return nil, ErrForeignState
	}
	if s.destroyed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDestroyed, s.fn.Name)
	}
	return s, nil
}

func (s *functionState) setup(args component.Args) error {
	if s.fn.Setup == nil {
		s.self = args
		return nil
	}
	self, err := s.fn.Setup(args)
	if err != nil {
		return err
	}
	s.self = self
	return nil
}
