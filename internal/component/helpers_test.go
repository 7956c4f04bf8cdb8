package component

import (
	"errors"

	"github.com/zjrosen/vellum/internal/capability"
)

// widget is the component value used throughout these tests.
type widget struct {
	name string
}

type widgetState struct {
	self      *widget
	args      Args
	updates   int
	created   bool
	destroyed bool
}

// bareManager implements only the required Manager methods.
type bareManager struct {
	caps capability.Set
}

func (m *bareManager) Capabilities(*widget) capability.Set { return m.caps }

func (m *bareManager) Create(owner any, w *widget, args Args) (State, error) {
	return &widgetState{self: w, args: args}, nil
}

func (m *bareManager) Self(state State) any { return state.(*widgetState).self }

func (m *bareManager) Destroy(state State) error {
	state.(*widgetState).destroyed = true
	return nil
}

// fullManager implements every optional hook.
type fullManager struct {
	bareManager
	calls      []string
	failHook   string
	hookErr    error
	completion chan error
}

func newFullManager(flags ...capability.Flag) *fullManager {
	return &fullManager{bareManager: bareManager{caps: capability.New(flags...)}}
}

func (m *fullManager) fail(hook string) error {
	m.calls = append(m.calls, hook)
	if hook == m.failHook {
		if m.hookErr == nil {
			m.hookErr = errors.New(hook + " exploded")
		}
		return m.hookErr
	}
	return nil
}

func (m *fullManager) Kind() string { return "widget" }

func (m *fullManager) Create(owner any, w *widget, args Args) (State, error) {
	if err := m.fail(HookCreate); err != nil {
		return nil, err
	}
	return &widgetState{self: w, args: args}, nil
}

func (m *fullManager) PrepareArgs(w *widget, args Args) (Args, error) {
	if err := m.fail(HookPrepareArgs); err != nil {
		return nil, err
	}
	return args, nil
}

func (m *fullManager) Update(state State, args Args) error {
	if err := m.fail(HookUpdate); err != nil {
		return err
	}
	s := state.(*widgetState)
	s.args = args
	s.updates++
	return nil
}

func (m *fullManager) DidCreate(state State) error {
	if err := m.fail(HookDidCreate); err != nil {
		return err
	}
	state.(*widgetState).created = true
	return nil
}

func (m *fullManager) DidCreateAsync(state State) Completion {
	m.calls = append(m.calls, "didCreateAsync")
	return m.completion
}

func (m *fullManager) WillDestroy(state State) error {
	return m.fail(HookWillDestroy)
}

func (m *fullManager) Destroy(state State) error {
	if err := m.fail(HookDestroy); err != nil {
		return err
	}
	state.(*widgetState).destroyed = true
	return nil
}
