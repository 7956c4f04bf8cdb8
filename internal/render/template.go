package render

import (
	"fmt"
	"strconv"
)

// Scope maps the names a template invokes to component values.
type Scope map[string]any

// Template is the render function of a component.
type Template struct {
	scope Scope
	nodes []Node
}

// NewTemplate returns a template invoking components from scope.
func NewTemplate(scope Scope, nodes ...Node) *Template {
	return &Template{scope: scope, nodes: nodes}
}

// Part is anything El accepts: child nodes, attributes and event handlers.
type Part interface {
	applyTo(el *elementNode)
}

// Node is one template node.
type Node interface {
	Part
	render(f *frame, out *content, path string) error
}

func renderNodes(f *frame, nodes []Node, out *content, path string) error {
	for i, n := range nodes {
		if err := n.render(f, out, path+"/"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

type elementNode struct {
	tag      string
	attrs    []attrPart
	handlers []onPart
	children []Node
}

// El is an element with children, attributes and handlers.
func El(tag string, parts ...Part) Node {
	n := &elementNode{tag: tag}
	for _, p := range parts {
		p.applyTo(n)
	}
	return n
}

func (n *elementNode) applyTo(parent *elementNode) { parent.children = append(parent.children, n) }

func (n *elementNode) render(f *frame, out *content, path string) error {
	el := f.pass.element(path, n.tag)
	c := newContent()

	for _, a := range n.attrs {
		v, err := a.expr.eval(f)
		if err != nil {
			return err
		}
		if v = deref(v); v == nil || v == false {
			continue
		}
		c.attrs = append(c.attrs, htmlAttr{name: a.name, value: fmt.Sprint(v)})
	}

	for _, h := range n.handlers {
		v, err := h.expr.eval(f)
		if err != nil {
			return err
		}
		if err := checkCallable(v, f.self); err != nil {
			return err
		}
		c.handlers[h.event] = handler{fn: v, receiver: f.self}
	}

	if err := renderNodes(f, n.children, c, path); err != nil {
		return err
	}

	f.pass.stage(el, c)
	out.children = append(out.children, child{el: el})
	return nil
}

type attrPart struct {
	name string
	expr Expr
}

// Attr sets an attribute. Attributes whose value is nil or false are omitted.
func Attr(name string, expr Expr) Part { return attrPart{name: name, expr: expr} }

func (a attrPart) applyTo(el *elementNode) { el.attrs = append(el.attrs, a) }

type onPart struct {
	event string
	expr  Expr
}

// On installs an event handler. The expression must evaluate to something
// callable: a curry, a Callable or a method of `this`.
func On(event string, expr Expr) Part { return onPart{event: event, expr: expr} }

func (o onPart) applyTo(el *elementNode) { el.handlers = append(el.handlers, o) }

type textNode string

// Text is static text.
func Text(s string) Node { return textNode(s) }

func (t textNode) applyTo(el *elementNode) { el.children = append(el.children, t) }

func (t textNode) render(_ *frame, out *content, _ string) error {
	out.children = append(out.children, child{text: string(t)})
	return nil
}

type showNode struct {
	expr Expr
}

// Show renders the text of an expression. Nil renders nothing.
func Show(expr Expr) Node { return showNode{expr: expr} }

func (s showNode) applyTo(el *elementNode) { el.children = append(el.children, s) }

func (s showNode) render(f *frame, out *content, _ string) error {
	v, err := s.expr.eval(f)
	if err != nil {
		return err
	}
	if v = deref(v); v != nil {
		out.children = append(out.children, child{text: fmt.Sprint(v)})
	}
	return nil
}

type whenNode struct {
	cond  Expr
	nodes []Node
}

// When renders nodes while cond is truthy. Components inside are destroyed
// when it turns falsy.
func When(cond Expr, nodes ...Node) Node { return whenNode{cond: cond, nodes: nodes} }

func (w whenNode) applyTo(el *elementNode) { el.children = append(el.children, w) }

func (w whenNode) render(f *frame, out *content, path string) error {
	v, err := w.cond.eval(f)
	if err != nil {
		return err
	}
	if !truthy(deref(v)) {
		return nil
	}
	return renderNodes(f, w.nodes, out, path)
}

// NamedArg is one @name=value argument of an Invoke.
type NamedArg struct {
	Name  string
	Value Expr
}

// A is shorthand for a NamedArg.
func A(name string, value Expr) NamedArg { return NamedArg{Name: name, Value: value} }

type invokeNode struct {
	name string
	args []NamedArg
}

// Invoke renders the component named in the template's scope.
func Invoke(name string, args ...NamedArg) Node { return invokeNode{name: name, args: args} }

func (n invokeNode) applyTo(el *elementNode) { el.children = append(el.children, n) }

func (n invokeNode) render(f *frame, out *content, path string) error {
	value, ok := f.scope[n.name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInScope, n.name)
	}
	args := make(map[string]any, len(n.args))
	for _, a := range n.args {
		v, err := a.Value.eval(f)
		if err != nil {
			return err
		}
		args[a.Name] = v
	}
	return f.pass.renderer.renderComponent(f.pass, path, value, args, out)
}
