package curry

import (
	"errors"
	"fmt"
	"reflect"
)

// Callable is a function invoked against an explicit receiver.
type Callable func(this any, args ...any) (any, error)

// Func adapts a receiver-less function to Callable.
func Func(fn func(args ...any) (any, error)) Callable {
	return func(_ any, args ...any) (any, error) {
		return fn(args...)
	}
}

// MethodRef names a method that is looked up on the bound context when the
// curry is invoked, so the method need not exist when the curry is built.
type MethodRef struct {
	Name string
}

// Method returns a reference to the named method of the bound context.
func Method(name string) MethodRef {
	return MethodRef{Name: name}
}

func (m MethodRef) String() string {
	return "method " + m.Name
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// describe names a target for error messages.
func describe(target any) string {
	switch t := target.(type) {
	case nil:
		return "undefined"
	case MethodRef:
		return t.String()
	case Callable, func(any, ...any) (any, error):
		return "function"
	default:
		return fmt.Sprintf("%T", target)
	}
}

// resolve turns target into a Callable, looking method references up on ctx.
func resolve(target any, ctx any) (Callable, error) {
	switch t := target.(type) {
	case Callable:
		if t == nil {
			break
		}
		return t, nil
	case func(any, ...any) (any, error):
		if t == nil {
			break
		}
		return t, nil
	case MethodRef:
		return resolveMethod(t, ctx)
	}
	return nil, &InvocationError{Target: describe(target), Err: ErrNotCallable}
}

func resolveMethod(ref MethodRef, ctx any) (Callable, error) {
	if ctx == nil || ref.Name == "" {
		return nil, &InvocationError{Target: ref.String(), Err: ErrNotCallable}
	}
	m := reflect.ValueOf(ctx).MethodByName(ref.Name)
	if !m.IsValid() {
		return nil, &InvocationError{
			Target: ref.String(),
			Err:    ErrNotCallable,
			Detail: fmt.Sprintf("%T has no method %s", ctx, ref.Name),
		}
	}
	return func(_ any, args ...any) (any, error) {
		return callReflect(ref.Name, m, args)
	}, nil
}

// callReflect calls a bound method value, converting arguments to its
// parameter types. Results may be (), (v), (err) or (v, err).
func callReflect(name string, fn reflect.Value, args []any) (any, error) {
	ft := fn.Type()
	in, err := convertArgs(ft, args)
	if err != nil {
		return nil, &InvocationError{Target: "method " + name, Err: ErrArgumentMismatch, Detail: err.Error()}
	}

	return splitResults(fn.Call(in))
}

func convertArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	variadic := ft.IsVariadic()
	fixed := numIn
	if variadic {
		fixed--
	}
	if len(args) < fixed || (!variadic && len(args) > numIn) {
		return nil, fmt.Errorf("got %d arguments, want %s", len(args), arity(ft))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if variadic && i >= fixed {
			want = ft.In(numIn - 1).Elem()
		} else {
			want = ft.In(i)
		}
		v, err := convertArg(arg, want)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

func arity(ft reflect.Type) string {
	if ft.IsVariadic() {
		return fmt.Sprintf("at least %d", ft.NumIn()-1)
	}
	return fmt.Sprintf("%d", ft.NumIn())
}

func convertArg(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", want)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	// Integer literals widen to any numeric parameter; floats never narrow to integers.
	if isNumeric(v.Kind()) && isNumeric(want.Kind()) && (!isFloat(v.Kind()) || isFloat(want.Kind())) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, want)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func splitResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		var err error
		if last.Type() == errorType {
			err = asError(last)
		}
		return out[0].Interface(), err
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	err, ok := v.Interface().(error)
	if !ok {
		return errors.New("non-error result")
	}
	return err
}
