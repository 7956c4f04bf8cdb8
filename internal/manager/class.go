package manager

import (
	"fmt"

	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/log"
)

// Constructor builds one class instance.
type Constructor func(owner any, args component.Args) (any, error)

// Class is a class-based component: a named constructor. Instances are the
// template's `this` and may implement the lifecycle interfaces below.
type Class struct {
	Name string
	New  Constructor
}

// NewClass returns a Class.
func NewClass(name string, ctor Constructor) *Class {
	return &Class{Name: name, New: ctor}
}

func (c *Class) String() string { return "class " + c.Name }

// ArgsReceiver instances are handed their args on create and on every update.
type ArgsReceiver interface {
	SetArgs(args component.Args)
}

// Creatable instances are notified after the pass that created them.
type Creatable interface {
	DidCreate() error
}

// AsyncCreatable instances finish their create hook asynchronously. The
// channel is closed, or sent one error, when the hook is done.
type AsyncCreatable interface {
	DidCreateAsync() <-chan error
}

// Destroyable instances are notified before they are destroyed.
type Destroyable interface {
	WillDestroy() error
}

// Base can be embedded by class instances to keep their owner and args.
type Base struct {
	owner any
	args  component.Args
}

// NewBase returns a Base for owner.
func NewBase(owner any, args component.Args) Base {
	return Base{owner: owner, args: args}
}

// Owner returns the owner passed at construction.
func (b *Base) Owner() any { return b.owner }

// Args returns the args last handed to the instance.
func (b *Base) Args() component.Args { return b.args }

// Arg returns one named arg.
func (b *Base) Arg(name string) any { return b.args[name] }

// SetArgs implements ArgsReceiver.
func (b *Base) SetArgs(args component.Args) { b.args = args }

type classState struct {
	class     *Class
	instance  any
	destroyed bool
}

// ClassManager manages *Class components.
type ClassManager struct {
	caps capability.Set
}

// ClassOption configures a ClassManager.
type ClassOption func(*classConfig)

type classConfig struct {
	async bool
}

// WithAsyncLifecycle makes the manager declare async-lifecycle, so the
// renderer waits on AsyncCreatable instances in Settled.
func WithAsyncLifecycle() ClassOption {
	return func(c *classConfig) { c.async = true }
}

var (
	_ component.Manager[*Class] = (*ClassManager)(nil)
	_ component.Updater         = (*ClassManager)(nil)
	_ component.CreateHook      = (*ClassManager)(nil)
	_ component.AsyncCreateHook = (*ClassManager)(nil)
	_ component.DestroyHook     = (*ClassManager)(nil)
)

// NewClassManager creates a class manager.
func NewClassManager(opts ...ClassOption) *ClassManager {
	var cfg classConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	caps := capability.New(
		capability.CreateArgs,
		capability.CreateInstance,
		capability.UpdateHook,
		capability.WillDestroy,
	)
	if cfg.async {
		caps = caps.With(capability.AsyncLifecycle)
	}
	return &ClassManager{caps: caps}
}

func (m *ClassManager) Kind() string { return "class" }

func (m *ClassManager) Capabilities(*Class) capability.Set { return m.caps }

func (m *ClassManager) Create(owner any, c *Class, args component.Args) (component.State, error) {
	if c == nil || c.New == nil {
		return nil, ErrNilConstructor
	}
	instance, err := c.New(owner, args)
	if err != nil {
		return nil, err
	}
	if r, ok := instance.(ArgsReceiver); ok {
		r.SetArgs(args)
	}
	log.Debug(log.CatManager, "Class instance created", "class", c.Name, "type", fmt.Sprintf("%T", instance))
	return &classState{class: c, instance: instance}, nil
}

func (m *ClassManager) Self(state component.State) any {
	s, ok := state.(*classState)
	if !ok {
		return nil
	}
	return s.instance
}

func (m *ClassManager) Update(state component.State, args component.Args) error {
	s, err := m.live(state)
	if err != nil {
		return err
	}
	if r, ok := s.instance.(ArgsReceiver); ok {
		r.SetArgs(args)
	}
	return nil
}

func (m *ClassManager) DidCreate(state component.State) error {
	s, err := m.live(state)
	if err != nil {
		return err
	}
	if c, ok := s.instance.(Creatable); ok {
		return c.DidCreate()
	}
	return nil
}

// DidCreateAsync returns the instance's completion. Instances that are only
// Creatable run synchronously; their failure comes back on an already-filled
// channel and success reports nothing pending.
func (m *ClassManager) DidCreateAsync(state component.State) component.Completion {
	s, err := m.live(state)
	if err != nil {
		return failed(err)
	}
	switch inst := s.instance.(type) {
	case AsyncCreatable:
		return inst.DidCreateAsync()
	case Creatable:
		if err := inst.DidCreate(); err != nil {
			return failed(err)
		}
	}
	return nil
}

func (m *ClassManager) WillDestroy(state component.State) error {
	s, err := m.live(state)
	if err != nil {
		return err
	}
	if d, ok := s.instance.(Destroyable); ok {
		return d.WillDestroy()
	}
	return nil
}

func (m *ClassManager) Destroy(state component.State) error {
	s, err := m.live(state)
	if err != nil {
		return err
	}
	s.destroyed = true
	log.Debug(log.CatManager, "Class instance destroyed", "class", s.class.Name)
	return nil
}

func (m *ClassManager) live(state component.State) (*classState, error) {
	s, ok := state.(*classState)
	if !ok || s == nil {
		return nil, ErrForeignState
	}
	if s.destroyed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDestroyed, s.class.Name)
	}
	return s, nil
}

func failed(err error) component.Completion {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
