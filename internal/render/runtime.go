package render

import (
	"reflect"

	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/manager"
)

// Runtime owns the definitions a Renderer can render: the handle
// allocator, the registry, one manager per kind and the template table.
type Runtime struct {
	alloc        *component.HandleAllocator
	registry     *component.Registry
	class        *manager.ClassManager
	function     *manager.FunctionManager
	templateOnly *manager.TemplateOnlyManager
	templates    map[any]*Template
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeConfig)

type runtimeConfig struct {
	asyncHooks bool
}

// WithAsyncHooks builds the class manager with async-lifecycle.
func WithAsyncHooks(enabled bool) RuntimeOption {
	return func(c *runtimeConfig) { c.asyncHooks = enabled }
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	var cfg runtimeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var classOpts []manager.ClassOption
	if cfg.asyncHooks {
		classOpts = append(classOpts, manager.WithAsyncLifecycle())
	}
	return &Runtime{
		alloc:        component.NewHandleAllocator(),
		registry:     component.NewRegistry(),
		class:        manager.NewClassManager(classOpts...),
		function:     manager.NewFunctionManager(),
		templateOnly: manager.NewTemplateOnlyManager(),
		templates:    make(map[any]*Template),
	}
}

// Define registers value under a fresh handle with m and attaches tpl.
func Define[T any](rt *Runtime, name string, m component.Manager[T], value T, tpl *Template) (*component.Definition[T], error) {
	h, err := rt.alloc.Allocate()
	if err != nil {
		return nil, &component.DefinitionError{Name: name, Err: err}
	}
	def, err := component.Define(name, m, value, h)
	if err != nil {
		rt.alloc.Release(h)
		return nil, err
	}
	if err := rt.registry.Register(def); err != nil {
		rt.alloc.Release(h)
		return nil, err
	}
	if tpl != nil {
		if err := rt.SetComponentTemplate(value, tpl); err != nil {
			rt.registry.Discard(h)
			rt.alloc.Release(h)
			return nil, err
		}
	}
	return def, nil
}

// DefineClass defines a class-based component.
func (rt *Runtime) DefineClass(name string, ctor manager.Constructor, tpl *Template) (*manager.Class, error) {
	c := manager.NewClass(name, ctor)
	if _, err := Define[*manager.Class](rt, name, rt.class, c, tpl); err != nil {
		return nil, err
	}
	return c, nil
}

// DefineFunction defines a function-based component.
func (rt *Runtime) DefineFunction(fn *manager.Function, tpl *Template) (*manager.Function, error) {
	if _, err := Define[*manager.Function](rt, fn.Name, rt.function, fn, tpl); err != nil {
		return nil, err
	}
	return fn, nil
}

// DefineTemplateOnly defines a component that is nothing but tpl.
func (rt *Runtime) DefineTemplateOnly(name string, tpl *Template) (*manager.TemplateOnly, error) {
	t := manager.TemplateOnlyComponent(name)
	if _, err := Define[*manager.TemplateOnly](rt, name, rt.templateOnly, t, tpl); err != nil {
		return nil, err
	}
	return t, nil
}

// SetComponentTemplate attaches tpl to a component value, replacing any
// template attached before.
func (rt *Runtime) SetComponentTemplate(value any, tpl *Template) error {
	if value == nil || !reflect.ValueOf(value).Comparable() {
		return ErrUnkeyable
	}
	rt.templates[value] = tpl
	return nil
}

// TemplateFor returns the template attached to value.
func (rt *Runtime) TemplateFor(value any) (*Template, bool) {
	if value == nil || !reflect.ValueOf(value).Comparable() {
		return nil, false
	}
	tpl, ok := rt.templates[value]
	return tpl, ok
}

// Resolve returns the definition of a component value.
func (rt *Runtime) Resolve(value any) (component.AnyDefinition, bool) {
	return rt.registry.Resolve(value)
}

// Undefine removes value's definition and template and frees its handle.
func (rt *Runtime) Undefine(value any) bool {
	def, ok := rt.registry.Resolve(value)
	if !ok {
		return false
	}
	h := def.Handle()
	rt.registry.Discard(h)
	rt.alloc.Release(h)
	delete(rt.templates, value)
	return true
}

// Definitions lists definitions in handle order.
func (rt *Runtime) Definitions() []component.AnyDefinition {
	return rt.registry.List()
}

// ClassManager returns the manager shared by class components.
func (rt *Runtime) ClassManager() *manager.ClassManager { return rt.class }

// FunctionManager returns the manager shared by function components.
func (rt *Runtime) FunctionManager() *manager.FunctionManager { return rt.function }

// TemplateOnlyManager returns the manager shared by template-only components.
func (rt *Runtime) TemplateOnlyManager() *manager.TemplateOnlyManager { return rt.templateOnly }

// Close discards every definition.
func (rt *Runtime) Close() {
	rt.registry.Close()
	rt.templates = make(map[any]*Template)
	log.Debug(log.CatRegistry, "Runtime closed")
}
