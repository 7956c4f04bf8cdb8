// Package capability defines the optional behaviors a component manager can
// declare. A Set is an immutable value: it is built once per manager kind and
// shared read-only by every definition that uses that manager.
package capability

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrUnknownFlag is returned by Parse for names outside the vocabulary.
var ErrUnknownFlag = errors.New("unknown capability")

// Flag is a single optional manager behavior.
type Flag uint32

const (
	DynamicLayout  Flag = 1 << iota // manager picks the layout per instance
	DynamicTag                      // manager supplies the element tag
	PrepareArgs                     // manager transforms args before create
	CreateArgs                      // create receives the evaluated args
	AttributeHook                   // manager receives splattributes
	ElementHook                     // manager receives the root element
	DynamicScope                    // instances read the dynamic scope
	CreateCaller                    // create receives the calling component
	UpdateHook                      // update is called when args change
	CreateInstance                  // manager creates an instance; didCreate runs after the pass
	Wrapped                         // definition wraps another definition
	WillDestroy                     // willDestroy runs before destroy
	HasSubOwner                     // instances get their own owner
	AsyncLifecycle                  // didCreate may complete asynchronously
)

// flagNames is the vocabulary in bit order.
var flagNames = [...]string{
	"dynamic-layout",
	"dynamic-tag",
	"prepare-args",
	"create-args",
	"attribute-hook",
	"element-hook",
	"dynamic-scope",
	"create-caller",
	"update-hook",
	"create-instance",
	"wrapped",
	"will-destroy",
	"has-sub-owner",
	"async-lifecycle",
}

const allMask = Flag(1)<<len(flagNames) - 1

// String returns the flag's vocabulary name.
func (f Flag) String() string {
	if f == 0 || bits.OnesCount32(uint32(f)) != 1 || f&^allMask != 0 {
		return fmt.Sprintf("capability(%#x)", uint32(f))
	}
	return flagNames[bits.TrailingZeros32(uint32(f))]
}

// All returns every flag in the vocabulary, in bit order.
func All() []Flag {
	out := make([]Flag, len(flagNames))
	for i := range flagNames {
		out[i] = Flag(1) << i
	}
	return out
}

// Lookup returns the flag for a vocabulary name.
func Lookup(name string) (Flag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range flagNames {
		if n == name {
			return Flag(1) << i, true
		}
	}
	return 0, false
}

// Set is an immutable set of capability flags.
// The zero value declares no capabilities.
type Set struct {
	mask Flag
}

// New returns a set where exactly the given flags are present.
func New(flags ...Flag) Set {
	var s Set
	for _, f := range flags {
		s.mask |= f & allMask
	}
	return s
}

// Parse builds a set from vocabulary names.
func Parse(names ...string) (Set, error) {
	flags := make([]Flag, 0, len(names))
	for _, name := range names {
		f, ok := Lookup(name)
		if !ok {
			return Set{}, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
		}
		flags = append(flags, f)
	}
	return New(flags...), nil
}

// Has reports whether f is present.
func (s Set) Has(f Flag) bool {
	return f != 0 && s.mask&f == f
}

// With returns a new set with flags added. s is unchanged.
func (s Set) With(flags ...Flag) Set {
	return Set{mask: s.mask | New(flags...).mask}
}

// Empty reports whether no capability is declared.
func (s Set) Empty() bool {
	return s.mask == 0
}

// Len returns the number of declared flags.
func (s Set) Len() int {
	return bits.OnesCount32(uint32(s.mask))
}

// Equal reports whether both sets declare the same flags.
func (s Set) Equal(other Set) bool {
	return s.mask == other.mask
}

// Flags returns the declared flags in vocabulary order.
func (s Set) Flags() []Flag {
	out := make([]Flag, 0, s.Len())
	for _, f := range All() {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the declared flag names in vocabulary order.
func (s Set) Names() []string {
	flags := s.Flags()
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.String()
	}
	return out
}

func (s Set) String() string {
	return "capabilities{" + strings.Join(s.Names(), ",") + "}"
}

// MarshalJSON encodes the set as a list of names.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// MarshalYAML encodes the set as a list of names.
func (s Set) MarshalYAML() (any, error) {
	return s.Names(), nil
}
