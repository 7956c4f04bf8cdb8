package render

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/tracked"
)

// Expr is a template expression evaluated against a frame.
type Expr interface {
	eval(f *frame) (any, error)
}

type litExpr struct{ v any }

// Lit is a constant.
func Lit(v any) Expr { return litExpr{v: v} }

func (l litExpr) eval(*frame) (any, error) { return l.v, nil }

type thisExpr struct{ path []string }

// This reads from the component's `this`. An empty path is `this` itself;
// a dotted path walks exported fields, map keys and tracked cells. A path
// ending at a method yields a reference to that method. Missing names
// evaluate to nil.
func This(path string) Expr { return thisExpr{path: splitPath(path)} }

func (t thisExpr) eval(f *frame) (any, error) {
	return walk(f.self, t.path, true), nil
}

type argExpr struct {
	name string
	rest []string
}

// Arg reads a named argument (@name), optionally followed by a dotted path.
func Arg(path string) Expr {
	parts := splitPath(path)
	if len(parts) == 0 {
		return argExpr{}
	}
	return argExpr{name: parts[0], rest: parts[1:]}
}

func (a argExpr) eval(f *frame) (any, error) {
	v, ok := f.args[a.name]
	if !ok {
		return nil, nil
	}
	return walk(v, a.rest, false), nil
}

type fnExpr struct {
	target Expr
	args   []Expr
}

// Fn curries target against `this` with args. The target must be callable
// when the template is rendered, and at least one argument is required.
func Fn(target Expr, args ...Expr) Expr { return fnExpr{target: target, args: args} }

func (e fnExpr) eval(f *frame) (any, error) {
	target, err := e.target.eval(f)
	if err != nil {
		return nil, err
	}
	if err := checkCallable(target, f.self); err != nil {
		return nil, err
	}

	args := make([]any, len(e.args))
	for i, a := range e.args {
		v, err := a.eval(f)
		if err != nil {
			return nil, err
		}
		args[i] = deref(v)
	}

	if memo := f.pass.renderer.memo; memo != nil {
		return memo.Curry(f.pass.ctx, target, f.self, args...)
	}
	return curry.New(target, f.self, args...)
}

func checkCallable(v any, self any) error {
	if v == nil {
		return &curry.InvocationError{Target: "undefined", Err: curry.ErrNotCallable}
	}
	return curry.Check(v, self)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// walk follows path from v. The last step may name a method. A method of
// `this` itself becomes a curry.MethodRef resolved against `this`; any
// other method is bound to its owner.
func walk(v any, path []string, fromThis bool) any {
	for i, name := range path {
		next, ok := field(v, name)
		if ok {
			v = next
			continue
		}
		if i == len(path)-1 {
			return method(v, name, fromThis && i == 0)
		}
		return nil
	}
	return v
}

func field(v any, name string) (any, bool) {
	v = deref(v)
	if v == nil {
		return nil, false
	}
	switch m := v.(type) {
	case component.Args:
		x, ok := m[name]
		return x, ok
	case map[string]any:
		x, ok := m[name]
		return x, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	sf, ok := rv.Type().FieldByName(exported(name))
	if !ok || !sf.IsExported() {
		return nil, false
	}
	return rv.FieldByIndex(sf.Index).Interface(), true
}

func method(owner any, name string, onThis bool) any {
	if owner == nil {
		return nil
	}
	name = exported(name)
	if !reflect.ValueOf(owner).MethodByName(name).IsValid() {
		return nil
	}
	if onThis {
		return curry.Method(name)
	}
	return curry.Callable(func(_ any, args ...any) (any, error) {
		return curry.Apply(curry.Method(name), owner, args...)
	})
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// deref unwraps tracked cells.
func deref(v any) any {
	if r, ok := v.(tracked.Reader); ok {
		return r.Value()
	}
	return v
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
