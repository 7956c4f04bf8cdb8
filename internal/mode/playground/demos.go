package playground

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/manager"
	"github.com/zjrosen/vellum/internal/render"
	"github.com/zjrosen/vellum/internal/tracked"
)

// Env is what every demo shares: the tracked clock and the renderer options
// taken from configuration.
type Env struct {
	Clock         *tracked.Clock
	Memo          *curry.Memo
	Tracer        trace.Tracer
	SettleTimeout time.Duration
	AsyncHooks    bool
}

func (e Env) runtime() *render.Runtime {
	return render.NewRuntime(render.WithAsyncHooks(e.AsyncHooks))
}

func (e Env) renderer(rt *render.Runtime) *render.Renderer {
	opts := []render.Option{render.WithClock(e.Clock), render.WithSettleTimeout(e.SettleTimeout)}
	if e.Memo != nil {
		opts = append(opts, render.WithMemo(e.Memo))
	}
	if e.Tracer != nil {
		opts = append(opts, render.WithTracer(e.Tracer))
	}
	return render.NewRenderer(rt, opts...)
}

// Scene is a loaded demo: its runtime, a renderer and the root component.
type Scene struct {
	Runtime  *render.Runtime
	Renderer *render.Renderer
	Root     any
	Args     component.Args

	activity []string
	toggle   func() string
}

// Activity returns what the demo's components reported, oldest first.
func (s *Scene) Activity() []string { return s.activity }

func (s *Scene) note(format string, args ...any) {
	entry := fmt.Sprintf(format, args...)
	s.activity = append(s.activity, entry)
	log.Debug(log.CatUI, "Demo activity", "entry", entry)
}

// Toggle flips the demo's tracked state and describes the new value.
// It returns "" when the demo has nothing to toggle.
func (s *Scene) Toggle() string {
	if s.toggle == nil {
		return ""
	}
	return s.toggle()
}

// Close tears down the renderer and discards the definitions.
func (s *Scene) Close() error {
	err := s.Renderer.Teardown()
	s.Runtime.Close()
	return err
}

// Demo is one entry of the demo list.
type Demo struct {
	Name        string
	Description string
	Build       func(env Env) (*Scene, error)
}

// Demos returns the playground's demos in display order.
func Demos() []Demo {
	return []Demo{
		{
			Name:        "fn: hello world",
			Description: "A button curries `userDidClick` with a literal and a tracked name. Press `n` to change the name.",
			Build:       buildHelloWorld,
		},
		{
			Name:        "fn: curried three times",
			Description: "Three nested components each append two arguments to the same handler. Press `n` to change the first one.",
			Build:       buildNestedCurry,
		},
		{
			Name:        "lifecycle: class hooks",
			Description: "A card is created and destroyed as tracked state shows and hides it.",
			Build:       buildLifecycle,
		},
	}
}

// greeter is the hello-world component.
type greeter struct {
	manager.Base
	Name  *tracked.Cell[string]
	scene *Scene
}

func (g *greeter) UserDidClick(greeting, name string, ev *render.Event) {
	g.scene.note("%s %s (%s on <%s>)", greeting, name, ev.Type, ev.Target.Tag)
}

func buildHelloWorld(env Env) (*Scene, error) {
	rt := env.runtime()
	s := &Scene{Runtime: rt}
	name := tracked.NewCell(env.Clock, "world").Named("greeter.name")

	root, err := rt.DefineClass("Greeter", func(owner any, args component.Args) (any, error) {
		return &greeter{Base: manager.NewBase(owner, args), Name: name, scene: s}, nil
	}, render.NewTemplate(nil,
		render.El("p", render.Text("Hello, "), render.Show(render.This("name"))),
		render.El("button",
			render.On("click", render.Fn(render.This("userDidClick"), render.Lit("hello"), render.This("name"))),
			render.Text("Say hello"),
		),
	))
	if err != nil {
		return nil, err
	}

	s.Root = root
	s.Renderer = env.renderer(rt)
	s.toggle = func() string {
		next := "cruel world"
		if name.Get() == next {
			next = "world"
		}
		name.Set(next)
		return "name = " + next
	}
	return s, nil
}

// recorder is the outermost component of the nested curry demo.
type recorder struct {
	Start *tracked.Cell[int]
	scene *Scene
}

func (r *recorder) Record(a, b, c, d, e, f int, ev *render.Event) {
	r.scene.note("record(%d, %d, %d, %d, %d, %d) from <%s>", a, b, c, d, e, f, ev.Target.Tag)
}

func buildNestedCurry(env Env) (*Scene, error) {
	rt := env.runtime()
	s := &Scene{Runtime: rt}
	start := tracked.NewCell(env.Clock, 1).Named("recorder.start")

	inner, err := rt.DefineTemplateOnly("Inner", render.NewTemplate(nil,
		render.El("button",
			render.On("click", render.Fn(render.Arg("onClick"), render.Lit(5), render.Lit(6))),
			render.Text("Record"),
		),
	))
	if err != nil {
		return nil, err
	}
	middle, err := rt.DefineTemplateOnly("Middle", render.NewTemplate(render.Scope{"Inner": inner},
		render.Invoke("Inner", render.A("onClick", render.Fn(render.Arg("onClick"), render.Lit(3), render.Lit(4)))),
	))
	if err != nil {
		return nil, err
	}
	root, err := rt.DefineClass("Outer", func(any, component.Args) (any, error) {
		return &recorder{Start: start, scene: s}, nil
	}, render.NewTemplate(render.Scope{"Middle": middle},
		render.El("div",
			render.Invoke("Middle", render.A("onClick", render.Fn(render.This("record"), render.This("start"), render.Lit(2)))),
		),
	))
	if err != nil {
		return nil, err
	}

	s.Root = root
	s.Renderer = env.renderer(rt)
	s.toggle = func() string {
		next := 1
		if start.Get() == 1 {
			next = 10
		}
		start.Set(next)
		return fmt.Sprintf("start = %d", next)
	}
	return s, nil
}

// panel shows or hides a card.
type panel struct {
	manager.Base
	Open  *tracked.Cell[bool]
	Title string
	scene *Scene
}

func (p *panel) Toggle(source string, _ *render.Event) {
	open := !p.Open.Get()
	p.Open.Set(open)
	p.scene.note("%s set open = %t", source, open)
}

// card reports its lifecycle hooks.
type card struct {
	manager.Base
	scene *Scene
}

func (c *card) DidCreate() error {
	c.scene.note("didCreate Card %q", c.Arg("title"))
	return nil
}

func (c *card) WillDestroy() error {
	c.scene.note("willDestroy Card %q", c.Arg("title"))
	return nil
}

func buildLifecycle(env Env) (*Scene, error) {
	rt := env.runtime()
	s := &Scene{Runtime: rt}
	open := tracked.NewCell(env.Clock, true).Named("panel.open")

	cardClass, err := rt.DefineClass("Card", func(owner any, args component.Args) (any, error) {
		if args["title"] == nil {
			return nil, errors.New("card needs a title")
		}
		s.note("create Card %q", args["title"])
		return &card{Base: manager.NewBase(owner, args), scene: s}, nil
	}, render.NewTemplate(nil,
		render.El("article", render.Show(render.Arg("title"))),
	))
	if err != nil {
		return nil, err
	}
	root, err := rt.DefineClass("Panel", func(owner any, args component.Args) (any, error) {
		return &panel{Base: manager.NewBase(owner, args), Open: open, Title: "Card", scene: s}, nil
	}, render.NewTemplate(render.Scope{"Card": cardClass},
		render.El("section",
			render.When(render.This("open"), render.Invoke("Card", render.A("title", render.This("title")))),
			render.El("button",
				render.On("click", render.Fn(render.This("toggle"), render.Lit("button"))),
				render.Text("Toggle card"),
			),
		),
	))
	if err != nil {
		return nil, err
	}

	s.Root = root
	s.Renderer = env.renderer(rt)
	s.toggle = func() string {
		next := !open.Get()
		open.Set(next)
		return fmt.Sprintf("open = %t", next)
	}
	return s, nil
}
