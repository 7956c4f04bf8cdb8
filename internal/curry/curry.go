// Package curry builds partially applied invocations that keep their
// receiver.
//
// A Value captures a target, the receiver the target runs against, and an
// ordered prefix of fixed arguments. Invoking it calls the target against
// that receiver with the bound arguments followed by the call's arguments.
//
// Currying a Value again keeps the original target and receiver and appends
// the new fixed arguments after the ones already bound:
//
//	inner, _ := curry.New(curry.Method("Save"), doc, 1, 2)
//	outer, _ := curry.New(inner, nil, 3, 4)
//	outer.Call(5, 6) // doc.Save(1, 2, 3, 4, 5, 6)
//
// Construction never invokes anything. Target resolution happens at call
// time, so a MethodRef may name a method the receiver does not have yet.
package curry

import (
	"github.com/zjrosen/vellum/internal/log"
)

// Value is a curried invocation.
type Value struct {
	target   any
	receiver any
	bound    []any
}

// New curries target with at least one fixed argument. When target is a
// *Value the result shares its target and receiver, and receiver is ignored.
func New(target any, receiver any, args ...any) (*Value, error) {
	if len(args) == 0 {
		return nil, &InvocationError{Target: describe(target), Err: ErrNoArguments}
	}

	if prior, ok := target.(*Value); ok && prior != nil {
		bound := make([]any, 0, len(prior.bound)+len(args))
		bound = append(bound, prior.bound...)
		bound = append(bound, args...)
		log.Debug(log.CatCurry, "Curry composed", "target", describe(prior.target), "bound", len(bound))
		return &Value{target: prior.target, receiver: prior.receiver, bound: bound}, nil
	}

	bound := make([]any, len(args))
	copy(bound, args)
	log.Debug(log.CatCurry, "Curry created", "target", describe(target), "bound", len(bound))
	return &Value{target: target, receiver: receiver, bound: bound}, nil
}

// Target returns the innermost target.
func (v *Value) Target() any { return v.target }

// Receiver returns the receiver captured by the innermost curry.
func (v *Value) Receiver() any { return v.receiver }

// BoundArgs returns a copy of the fixed arguments in binding order.
func (v *Value) BoundArgs() []any {
	out := make([]any, len(v.bound))
	copy(out, v.bound)
	return out
}

// Resolve returns the callable the value would invoke now, or an
// *InvocationError when the target is not a function.
func (v *Value) Resolve() (Callable, error) {
	if v == nil {
		return nil, &InvocationError{Target: "undefined", Err: ErrNotCallable}
	}
	return resolve(v.target, v.receiver)
}

// Call invokes the target against the receiver with the bound arguments
// followed by args. The target's result and error are returned unchanged.
func (v *Value) Call(args ...any) (any, error) {
	fn, err := v.Resolve()
	if err != nil {
		log.Debug(log.CatCurry, "Curry invocation rejected", "error", err)
		return nil, err
	}
	all := make([]any, 0, len(v.bound)+len(args))
	all = append(all, v.bound...)
	all = append(all, args...)
	return fn(v.receiver, all...)
}

// Invoke calls v with args.
func Invoke(v *Value, args ...any) (any, error) {
	return v.Call(args...)
}

// Apply invokes any supported target: a *Value, a Callable, or a MethodRef
// looked up on receiver.
func Apply(target any, receiver any, args ...any) (any, error) {
	if v, ok := target.(*Value); ok {
		return v.Call(args...)
	}
	fn, err := resolve(target, receiver)
	if err != nil {
		return nil, err
	}
	return fn(receiver, args...)
}

// Check returns the error invoking target against receiver would fail
// with, without invoking it.
func Check(target any, receiver any) error {
	if v, ok := target.(*Value); ok {
		_, err := v.Resolve()
		return err
	}
	_, err := resolve(target, receiver)
	return err
}

// IsCallable reports whether target would resolve against receiver now.
func IsCallable(target any, receiver any) bool {
	return Check(target, receiver) == nil
}
