package component

import (
	"reflect"

	"github.com/zjrosen/vellum/internal/capability"
)

// Args are the named arguments passed to a component (@name in templates).
type Args map[string]any

// Get returns the named argument.
func (a Args) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// Clone returns a shallow copy. A nil map clones to an empty one.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// SameArgs reports whether a and b are the same map, not merely equal ones.
// PrepareArgs implementations return the identical map when they change
// nothing so memoized consumers can compare by identity.
func SameArgs(a, b Args) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// State is whatever a manager tracks for one live instance.
type State any

// Completion is closed, or receives one error, when an asynchronous hook
// finishes.
type Completion <-chan error

// Manager runs one kind of component.
type Manager[T any] interface {
	// Capabilities is called once per definition, at definition time.
	Capabilities(component T) capability.Set
	// Create allocates the state for one live instance.
	Create(owner any, component T, args Args) (State, error)
	// Self is the value `this` resolves to in the component's template.
	Self(state State) any
	// Destroy releases manager-held resources. Called once per instance.
	Destroy(state State) error
}

// ArgsPreparer is implemented by managers declaring capability.PrepareArgs.
type ArgsPreparer[T any] interface {
	PrepareArgs(component T, args Args) (Args, error)
}

// Updater is implemented by managers declaring capability.UpdateHook.
type Updater interface {
	Update(state State, args Args) error
}

// CreateHook is implemented by managers declaring capability.CreateInstance.
type CreateHook interface {
	DidCreate(state State) error
}

// AsyncCreateHook is implemented by managers declaring both
// capability.CreateInstance and capability.AsyncLifecycle.
type AsyncCreateHook interface {
	DidCreateAsync(state State) Completion
}

// DestroyHook is implemented by managers declaring capability.WillDestroy.
type DestroyHook interface {
	WillDestroy(state State) error
}

// Kinded is implemented by managers that name their component kind.
type Kinded interface {
	Kind() string
}
