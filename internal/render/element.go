package render

import (
	"html"
	"strings"

	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/log"
)

// Element is a rendered element. The same *Element is reused by later passes
// for as long as its template position renders the same tag.
type Element struct {
	Tag string

	key      string
	renderer *Renderer
	c        *content
}

// Event is passed to handlers by Click.
type Event struct {
	Type   string
	Target *Element
}

type htmlAttr struct {
	name  string
	value string
}

type handler struct {
	fn       any
	receiver any
}

type child struct {
	el   *Element
	text string
}

type content struct {
	attrs    []htmlAttr
	handlers map[string]handler
	children []child
}

func newContent() *content {
	return &content{handlers: make(map[string]handler)}
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	if e.c == nil {
		return "", false
	}
	for _, a := range e.c.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// Text returns the element's text content.
func (e *Element) Text() string {
	var b strings.Builder
	e.c.writeText(&b)
	return b.String()
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	if e.c == nil {
		return nil
	}
	var out []*Element
	for _, ch := range e.c.children {
		if ch.el != nil {
			out = append(out, ch.el)
		}
	}
	return out
}

// Markup returns the element's outer markup.
func (e *Element) Markup() string {
	var b strings.Builder
	e.writeMarkup(&b)
	return b.String()
}

// Handles reports whether the element has a handler for event.
func (e *Element) Handles(event string) bool {
	if e.c == nil {
		return false
	}
	_, ok := e.c.handlers[event]
	return ok
}

// Click dispatches a click Event.
func (e *Element) Click() error {
	return e.Dispatch("click", &Event{Type: "click", Target: e})
}

// Dispatch calls the handler for event with ev as its last argument. The
// handler's own error is returned unchanged.
func (e *Element) Dispatch(event string, ev any) error {
	if e.renderer == nil || !e.renderer.attached(e) {
		return ErrDetached
	}
	h, ok := e.c.handlers[event]
	if !ok {
		return ErrNoHandler
	}
	log.Debug(log.CatRender, "Dispatching event", "event", event, "tag", e.Tag, "key", e.key)
	_, err := curry.Apply(h.fn, h.receiver, ev)
	return err
}

func (e *Element) writeMarkup(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	if e.c != nil {
		for _, a := range e.c.attrs {
			b.WriteByte(' ')
			b.WriteString(a.name)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.value))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
	e.c.writeChildren(b)
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}

func (c *content) writeChildren(b *strings.Builder) {
	if c == nil {
		return
	}
	for _, ch := range c.children {
		if ch.el != nil {
			ch.el.writeMarkup(b)
			continue
		}
		b.WriteString(html.EscapeString(ch.text))
	}
}

func (c *content) writeText(b *strings.Builder) {
	if c == nil {
		return
	}
	for _, ch := range c.children {
		if ch.el != nil {
			ch.el.c.writeText(b)
			continue
		}
		b.WriteString(ch.text)
	}
}

// walkElements visits elements under c in document order until fn returns
// false.
func (c *content) walkElements(fn func(*Element) bool) bool {
	if c == nil {
		return true
	}
	for _, ch := range c.children {
		if ch.el == nil {
			continue
		}
		if !fn(ch.el) || !ch.el.c.walkElements(fn) {
			return false
		}
	}
	return true
}
