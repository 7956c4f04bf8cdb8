// Package component binds component values to the managers that run them.
//
// A Definition pairs a component value (a class constructor, a setup
// function, a template-only marker, anything a Manager understands) with its
// Manager, the capability.Set negotiated once at definition time, and an
// integer Handle supplied by a HandleAllocator.
//
// # Capability gating
//
// Managers implement Manager plus any of the optional hook interfaces
// (ArgsPreparer, Updater, CreateHook, AsyncCreateHook, DestroyHook). A
// definition only forwards a hook when the matching capability was declared:
//
//	prepare-args     ArgsPreparer.PrepareArgs
//	update-hook      Updater.Update
//	create-instance  CreateHook.DidCreate
//	async-lifecycle  AsyncCreateHook.DidCreateAsync (with create-instance)
//	will-destroy     DestroyHook.WillDestroy
//
// Calling a hook that was not declared returns a *CapabilityViolationError.
// Declaring a capability the manager cannot serve fails Define with a
// *DefinitionError.
//
// # Registry
//
// Registry is an arena keyed by handle: handles are indices into a
// definition table, and everything else holds only the handle. It also keeps
// a side table from component value to handle so a renderer can resolve a
// component value once per encounter.
//
// Nothing in this package locks. Registration, dispatch and lookups are
// expected to run on the single goroutine that drives rendering.
package component
