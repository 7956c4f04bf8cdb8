// Package flags holds read-only feature flags loaded from the `flags:` config
// section. Unknown flags are disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/vellum/internal/log"
)

const (
	// FlagCurryMemo makes the renderer hand out the same curry value for an
	// unchanged (target, receiver, args) tuple across passes.
	FlagCurryMemo = "curry-memo"

	// FlagAsyncHooks builds the class manager with async-lifecycle, so
	// Settled waits for asynchronous create hooks.
	FlagAsyncHooks = "async-hooks"
)

var descriptions = map[string]string{
	FlagCurryMemo:  "reuse curry values for unchanged fn(...) calls across passes",
	FlagAsyncHooks: "class components may finish their create hook asynchronously",
}

// Known returns the flags vellum reads, sorted by name.
func Known() []string {
	return slices.Sorted(maps.Keys(descriptions))
}

// Describe returns a one-line description of a known flag.
func Describe(name string) string {
	return descriptions[name]
}

// Registry holds flag state. It is read-only after New.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a copy of flags. A nil map disables everything.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	for name := range r.flags {
		if _, ok := descriptions[name]; !ok {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.flags)
	return r
}

// Enabled reports whether name is on. Unknown flags and a nil registry
// report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of every flag.
func (r *Registry) All() map[string]bool {
	result := make(map[string]bool)
	if r != nil {
		maps.Copy(result, r.flags)
	}
	return result
}
