package component

import (
	"fmt"
	"reflect"

	"github.com/zjrosen/vellum/internal/log"
)

// Registry owns definitions, indexed by handle.
type Registry struct {
	entries []AnyDefinition // entries[h-1]
	byValue map[any]Handle
	count   int
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]AnyDefinition, 0, 64),
		byValue: make(map[any]Handle),
	}
}

// Register stores def under its handle.
func (r *Registry) Register(def AnyDefinition) error {
	if isNil(def) {
		return &DefinitionError{Err: ErrNilDefinition}
	}
	name, h := def.Name(), def.Handle()
	if r.closed {
		return &DefinitionError{Name: name, Handle: h, Err: ErrRegistryClosed}
	}
	if !h.Valid() {
		return &DefinitionError{Name: name, Handle: h, Err: fmt.Errorf("%w: %d", ErrInvalidHandle, h)}
	}
	if existing, ok := r.Lookup(h); ok {
		return &DefinitionError{Name: name, Handle: h,
			Err: fmt.Errorf("%w: held by %s", ErrDuplicateHandle, existing.DebugDescriptor())}
	}

	value := def.ComponentValue()
	keyed := indexable(value)
	if keyed {
		if other, ok := r.byValue[value]; ok {
			return &DefinitionError{Name: name, Handle: h,
				Err: fmt.Errorf("%w: handle %d", ErrDuplicateComponent, other)}
		}
	}

	for int(h) > len(r.entries) {
		r.entries = append(r.entries, nil)
	}
	r.entries[h-1] = def
	if keyed {
		r.byValue[value] = h
	}
	r.count++

	log.Debug(log.CatRegistry, "Definition registered", "name", name, "handle", h, "kind", def.Kind())
	return nil
}

func isNil(def AnyDefinition) bool {
	if def == nil {
		return true
	}
	v := reflect.ValueOf(def)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// indexable reports whether v can key the value side table. Comparability
// is checked on the value, since an interface field holding a slice
// cannot be hashed.
func indexable(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Comparable()
}

// Lookup returns the definition registered under h. Repeated lookups return
// the same definition.
func (r *Registry) Lookup(h Handle) (AnyDefinition, bool) {
	if !h.Valid() || int(h) > len(r.entries) {
		return nil, false
	}
	def := r.entries[h-1]
	return def, def != nil
}

// Resolve returns the definition registered for a component value.
func (r *Registry) Resolve(value any) (AnyDefinition, bool) {
	if !indexable(value) {
		return nil, false
	}
	h, ok := r.byValue[value]
	if !ok {
		return nil, false
	}
	return r.Lookup(h)
}

// Discard removes the definition under h. The handle may be reused by the
// allocator afterwards.
func (r *Registry) Discard(h Handle) bool {
	def, ok := r.Lookup(h)
	if !ok {
		return false
	}
	if value := def.ComponentValue(); indexable(value) {
		delete(r.byValue, value)
	}
	r.entries[h-1] = nil
	r.count--
	log.Debug(log.CatRegistry, "Definition discarded", "name", def.Name(), "handle", h)
	return true
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return r.count
}

// List returns all definitions in handle order.
func (r *Registry) List() []AnyDefinition {
	out := make([]AnyDefinition, 0, r.count)
	for _, def := range r.entries {
		if def != nil {
			out = append(out, def)
		}
	}
	return out
}

// Close discards every definition. Later registrations fail.
func (r *Registry) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.entries = nil
	r.byValue = nil
	r.count = 0
	log.Debug(log.CatRegistry, "Registry closed")
}
