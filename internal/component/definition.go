package component

import (
	"encoding/json"
	"fmt"

	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/log"
)

// Hook names used in errors and logs.
const (
	HookPrepareArgs = "prepareArgs"
	HookCreate      = "create"
	HookUpdate      = "update"
	HookDidCreate   = "didCreate"
	HookWillDestroy = "willDestroy"
	HookDestroy     = "destroy"
)

// AnyDefinition is a Definition with its component type erased. Registries
// and renderers work in terms of AnyDefinition.
type AnyDefinition interface {
	Name() string
	Handle() Handle
	Kind() string
	Capabilities() capability.Set
	ComponentValue() any
	DebugDescriptor() string

	PrepareArgs(args Args) (Args, error)
	Create(owner any, args Args) (State, error)
	Update(state State, args Args) error
	DidCreate(state State) error
	DidCreateAsync(state State) (Completion, error)
	WillDestroy(state State) error
	Self(state State) any
	Destroy(state State) error
}

// Definition binds a component value to its manager, capabilities and handle.
// A Definition is immutable after Define returns.
type Definition[T any] struct {
	name    string
	manager Manager[T]
	value   T
	handle  Handle
	caps    capability.Set
}

var _ AnyDefinition = (*Definition[any])(nil)

// Define negotiates capabilities with manager and returns the definition.
// The handle comes from an external allocator; Define only validates and
// stores it.
func Define[T any](name string, manager Manager[T], value T, handle Handle) (*Definition[T], error) {
	if name == "" {
		return nil, &DefinitionError{Handle: handle, Err: ErrEmptyName}
	}
	if manager == nil {
		return nil, &DefinitionError{Name: name, Handle: handle, Err: ErrNilManager}
	}
	if !handle.Valid() {
		return nil, &DefinitionError{Name: name, Handle: handle, Err: fmt.Errorf("%w: %d", ErrInvalidHandle, handle)}
	}

	caps := manager.Capabilities(value)
	if err := checkImplemented[T](manager, caps); err != nil {
		return nil, &DefinitionError{Name: name, Handle: handle, Err: err}
	}

	log.Debug(log.CatRegistry, "Definition created", "name", name, "handle", handle, "capabilities", caps)

	return &Definition[T]{
		name:    name,
		manager: manager,
		value:   value,
		handle:  handle,
		caps:    caps,
	}, nil
}

// checkImplemented fails when a declared capability has no backing hook.
func checkImplemented[T any](manager Manager[T], caps capability.Set) error {
	if caps.Has(capability.AsyncLifecycle) && !caps.Has(capability.CreateInstance) {
		return fmt.Errorf("%w: %s requires %s", ErrMalformedCapabilities,
			capability.AsyncLifecycle, capability.CreateInstance)
	}

	var ok bool
	checks := []struct {
		flag capability.Flag
		impl func() bool
	}{
		{capability.PrepareArgs, func() bool { _, ok = manager.(ArgsPreparer[T]); return ok }},
		{capability.UpdateHook, func() bool { _, ok = manager.(Updater); return ok }},
		{capability.CreateInstance, func() bool { _, ok = manager.(CreateHook); return ok }},
		{capability.AsyncLifecycle, func() bool { _, ok = manager.(AsyncCreateHook); return ok }},
		{capability.WillDestroy, func() bool { _, ok = manager.(DestroyHook); return ok }},
	}
	for _, c := range checks {
		if caps.Has(c.flag) && !c.impl() {
			return fmt.Errorf("%w: %s", ErrUnimplementedCapability, c.flag)
		}
	}
	return nil
}

// Name returns the diagnostic name.
func (d *Definition[T]) Name() string { return d.name }

// Handle returns the lookup handle.
func (d *Definition[T]) Handle() Handle { return d.handle }

// Capabilities returns the capabilities negotiated at definition time.
func (d *Definition[T]) Capabilities() capability.Set { return d.caps }

// Manager returns the manager shared by every definition of this kind.
func (d *Definition[T]) Manager() Manager[T] { return d.manager }

// Value returns the component value.
func (d *Definition[T]) Value() T { return d.value }

// ComponentValue returns the component value as any.
func (d *Definition[T]) ComponentValue() any { return d.value }

// Kind returns the manager's kind name, or "custom".
func (d *Definition[T]) Kind() string {
	if k, ok := d.manager.(Kinded); ok {
		return k.Kind()
	}
	return "custom"
}

// DebugDescriptor returns a diagnostic string embedding the name.
func (d *Definition[T]) DebugDescriptor() string {
	return fmt.Sprintf("<component-definition name=%q>", d.name)
}

func (d *Definition[T]) String() string {
	return d.DebugDescriptor()
}

// MarshalJSON encodes the debug descriptor for inspection tools.
func (d *Definition[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Debug string `json:"debug"`
	}{Debug: d.DebugDescriptor()})
}

func (d *Definition[T]) violation(op string, required capability.Flag) error {
	err := &CapabilityViolationError{
		Definition: d.DebugDescriptor(),
		Operation:  op,
		Required:   required,
		Declared:   d.caps,
	}
	log.ErrorErr(log.CatManager, "Capability violation", err, "handle", d.handle)
	return err
}

func (d *Definition[T]) hookError(hook string, err error) error {
	if err == nil {
		return nil
	}
	log.Debug(log.CatManager, "Manager hook failed", "hook", hook, "definition", d.name, "error", err)
	return &ManagerHookError{Hook: hook, Definition: d.name, Err: err}
}

// PrepareArgs forwards to the manager's ArgsPreparer.
func (d *Definition[T]) PrepareArgs(args Args) (Args, error) {
	if !d.caps.Has(capability.PrepareArgs) {
		return nil, d.violation(HookPrepareArgs, capability.PrepareArgs)
	}
	out, err := d.manager.(ArgsPreparer[T]).PrepareArgs(d.value, args)
	if err != nil {
		return nil, d.hookError(HookPrepareArgs, err)
	}
	return out, nil
}

// Create allocates instance state. Managers that do not declare
// capability.CreateArgs receive nil args.
func (d *Definition[T]) Create(owner any, args Args) (State, error) {
	if !d.caps.Has(capability.CreateArgs) {
		args = nil
	}
	state, err := d.manager.Create(owner, d.value, args)
	if err != nil {
		return nil, d.hookError(HookCreate, err)
	}
	return state, nil
}

// Update forwards changed args to the manager's Updater.
func (d *Definition[T]) Update(state State, args Args) error {
	if !d.caps.Has(capability.UpdateHook) {
		return d.violation(HookUpdate, capability.UpdateHook)
	}
	return d.hookError(HookUpdate, d.manager.(Updater).Update(state, args))
}

// DidCreate runs the manager's CreateHook.
func (d *Definition[T]) DidCreate(state State) error {
	if !d.caps.Has(capability.CreateInstance) {
		return d.violation(HookDidCreate, capability.CreateInstance)
	}
	return d.hookError(HookDidCreate, d.manager.(CreateHook).DidCreate(state))
}

// DidCreateAsync runs the manager's AsyncCreateHook. The returned completion
// is nil when the hook has nothing pending.
func (d *Definition[T]) DidCreateAsync(state State) (Completion, error) {
	if !d.caps.Has(capability.CreateInstance) {
		return nil, d.violation(HookDidCreate, capability.CreateInstance)
	}
	if !d.caps.Has(capability.AsyncLifecycle) {
		return nil, d.violation(HookDidCreate, capability.AsyncLifecycle)
	}
	return d.manager.(AsyncCreateHook).DidCreateAsync(state), nil
}

// WillDestroy runs the manager's DestroyHook.
func (d *Definition[T]) WillDestroy(state State) error {
	if !d.caps.Has(capability.WillDestroy) {
		return d.violation(HookWillDestroy, capability.WillDestroy)
	}
	return d.hookError(HookWillDestroy, d.manager.(DestroyHook).WillDestroy(state))
}

// Self returns the template's `this` for state.
func (d *Definition[T]) Self(state State) any {
	return d.manager.Self(state)
}

// Destroy releases the instance.
func (d *Definition[T]) Destroy(state State) error {
	return d.hookError(HookDestroy, d.manager.Destroy(state))
}
