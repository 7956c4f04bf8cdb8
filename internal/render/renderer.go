package render

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/pubsub"
	"github.com/zjrosen/vellum/internal/tracing"
	"github.com/zjrosen/vellum/internal/tracked"
)

const (
	rootKey = "root"
	docTag  = "#document"

	// maxSettleRounds bounds re-renders triggered by hooks that write
	// tracked state while settling.
	maxSettleRounds = 16
)

// Owner is passed to managers as the owner of every instance a Renderer
// creates.
type Owner struct {
	ID string
}

// Pass is published on the renderer's broker after every committed pass.
type Pass struct {
	ID        string
	Revision  tracked.Revision
	Markup    string
	Instances int
}

type instance struct {
	key       string
	def       component.AnyDefinition
	state     component.State
	args      component.Args
	seq       uint64
	destroyed bool
}

type pendingHook struct {
	inst       *instance
	completion component.Completion
}

// Renderer renders one root component at a time.
type Renderer struct {
	rt            *Runtime
	clock         *tracked.Clock
	tracer        trace.Tracer
	memo          *curry.Memo
	settleTimeout time.Duration
	owner         *Owner
	events        *pubsub.Broker[Pass]

	instances map[string]*instance
	elements  map[string]*Element
	doc       *Element
	seq       uint64
	pending   []pendingHook

	rendered     bool
	rootValue    any
	rootArgs     component.Args
	markup       string
	lastRevision tracked.Revision
	torndown     bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the tracked clock Settled compares against. Cells read by
// templates must be created on it.
func WithClock(c *tracked.Clock) Option {
	return func(r *Renderer) { r.clock = c }
}

// WithTracer records passes, settles and manager hooks as spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Renderer) { r.tracer = t }
}

// WithMemo makes Fn reuse curry values for unchanged tuples.
func WithMemo(m *curry.Memo) Option {
	return func(r *Renderer) { r.memo = m }
}

// WithSettleTimeout bounds how long Settled waits. Zero waits for ctx only.
func WithSettleTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.settleTimeout = d }
}

// NewRenderer creates a renderer over rt.
func NewRenderer(rt *Runtime, opts ...Option) *Renderer {
	r := &Renderer{
		rt:        rt,
		owner:     &Owner{ID: uuid.NewString()},
		events:    pubsub.NewBroker[Pass](),
		instances: make(map[string]*instance),
		elements:  make(map[string]*Element),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = tracked.NewClock()
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer("render")
	}
	r.doc = &Element{Tag: docTag, key: rootKey, renderer: r}
	return r
}

// Clock returns the tracked clock.
func (r *Renderer) Clock() *tracked.Clock { return r.clock }

// Owner returns the owner handed to managers.
func (r *Renderer) Owner() *Owner { return r.owner }

// Markup returns the markup of the last committed pass.
func (r *Renderer) Markup() string { return r.markup }

// Instances returns the number of live component instances.
func (r *Renderer) Instances() int { return len(r.instances) }

// Pending returns the number of asynchronous hooks Settled would wait for.
func (r *Renderer) Pending() int { return len(r.pending) }

// Invalidations streams tracked writes, so a UI can schedule Settled.
func (r *Renderer) Invalidations(ctx context.Context) <-chan pubsub.Event[tracked.Revision] {
	return r.clock.Subscribe(ctx)
}

// Passes streams committed passes (UpdatedEvent) and settles (SettledEvent).
func (r *Renderer) Passes(ctx context.Context) <-chan pubsub.Event[Pass] {
	return r.events.Subscribe(ctx)
}

// Broker exposes the pass broker for Bubble Tea listeners.
func (r *Renderer) Broker() *pubsub.Broker[Pass] { return r.events }

type pass struct {
	ctx       context.Context
	id        string
	renderer  *Renderer
	instances map[string]*instance
	args      map[*instance]component.Args
	created   []*instance
	updated   []*instance
	elements  map[string]*Element
	staged    map[*Element]*content
}

type frame struct {
	pass  *pass
	self  any
	args  component.Args
	scope Scope
}

func (p *pass) element(key, tag string) *Element {
	el, ok := p.renderer.elements[key]
	if !ok || el.Tag != tag {
		el = &Element{Tag: tag, key: key, renderer: p.renderer}
	}
	p.elements[key] = el
	return el
}

func (p *pass) stage(el *Element, c *content) {
	p.staged[el] = c
}

// Render renders value with args and commits the result. A rejected pass
// returns a *PassError and leaves the previous output in place; instances
// it created are destroyed.
func (r *Renderer) Render(ctx context.Context, value any, args component.Args) (string, error) {
	if r.torndown {
		return "", ErrTornDown
	}

	p := &pass{
		id:        uuid.NewString(),
		renderer:  r,
		instances: make(map[string]*instance),
		args:      make(map[*instance]component.Args),
		elements:  make(map[string]*Element),
		staged:    make(map[*Element]*content),
	}
	ctx, span := r.tracer.Start(ctx, tracing.SpanRenderPass, trace.WithAttributes(
		attribute.String(tracing.AttrPassID, p.id),
		attribute.Int64(tracing.AttrRevision, int64(r.clock.Revision())),
	))
	defer span.End()
	p.ctx = ctx

	start := time.Now()
	rev := r.clock.Revision()
	root := newContent()

	if err := r.renderComponent(p, rootKey, value, args, root); err != nil {
		r.abort(p)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatRender, "Render pass rejected", err, "pass", p.id)
		var pe *PassError
		if errors.As(err, &pe) {
			return "", err
		}
		return "", &PassError{Pass: p.id, Err: err}
	}

	stale := r.commit(p, root)
	r.rendered = true
	r.rootValue, r.rootArgs = value, args
	r.lastRevision = rev

	var errs []error
	for _, inst := range stale {
		if err := r.destroy(ctx, inst); err != nil {
			errs = append(errs, err)
		}
	}
	for _, inst := range p.created {
		if err := r.didCreate(ctx, inst); err != nil {
			errs = append(errs, err)
		}
	}

	span.SetAttributes(attribute.Int(tracing.AttrInstances, len(r.instances)))
	log.Debug(log.CatRender, "Render pass committed", "pass", p.id, "revision", rev,
		"instances", len(r.instances), "created", len(p.created), "destroyed", len(stale),
		"duration", time.Since(start))

	r.events.Publish(pubsub.UpdatedEvent, Pass{ID: p.id, Revision: rev, Markup: r.markup, Instances: len(r.instances)})

	if err := errors.Join(errs...); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return r.markup, err
	}
	return r.markup, nil
}

func (r *Renderer) renderComponent(p *pass, key string, value any, args component.Args, out *content) error {
	def, ok := r.rt.Resolve(value)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, describe(value))
	}
	caps := def.Capabilities()

	if caps.Has(capability.PrepareArgs) {
		if err := r.hook(p.ctx, def, component.HookPrepareArgs, func() error {
			var err error
			args, err = def.PrepareArgs(args)
			return err
		}); err != nil {
			return r.failIn(p, def, err)
		}
	}

	inst := r.instances[key]
	if inst != nil && inst.def == def {
		if caps.Has(capability.UpdateHook) && !argsEqual(inst.args, args) {
			if err := r.hook(p.ctx, def, component.HookUpdate, func() error {
				return def.Update(inst.state, args)
			}); err != nil {
				return r.failIn(p, def, err)
			}
			p.updated = append(p.updated, inst)
		}
		p.args[inst] = args
	} else {
		var state component.State
		if err := r.hook(p.ctx, def, component.HookCreate, func() error {
			var err error
			state, err = def.Create(r.owner, args)
			return err
		}); err != nil {
			return r.failIn(p, def, err)
		}
		r.seq++
		inst = &instance{key: key, def: def, state: state, args: args, seq: r.seq}
		p.created = append(p.created, inst)
	}
	p.instances[key] = inst

	tpl, ok := r.rt.TemplateFor(def.ComponentValue())
	if !ok || tpl == nil {
		return nil
	}
	f := &frame{pass: p, self: def.Self(inst.state), args: args, scope: tpl.scope}
	if err := renderNodes(f, tpl.nodes, out, key); err != nil {
		return r.failIn(p, def, err)
	}
	return nil
}

// failIn attributes err to the innermost component that saw it.
func (r *Renderer) failIn(p *pass, def component.AnyDefinition, err error) error {
	var pe *PassError
	if errors.As(err, &pe) {
		return err
	}
	return &PassError{Pass: p.id, Component: def.Name(), Err: err}
}

// hook runs fn inside a manager.hook span.
func (r *Renderer) hook(ctx context.Context, def component.AnyDefinition, name string, fn func() error) error {
	_, span := r.tracer.Start(ctx, tracing.SpanManagerHook, trace.WithAttributes(
		attribute.String(tracing.AttrHook, name),
		attribute.String(tracing.AttrDefinition, def.Name()),
		attribute.Int64(tracing.AttrHandle, int64(def.Handle())),
	))
	defer span.End()

	err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *Renderer) commit(p *pass, root *content) []*instance {
	for el, c := range p.staged {
		el.c = c
	}
	for inst, args := range p.args {
		inst.args = args
	}
	r.doc.c = root
	r.elements = p.elements

	var stale []*instance
	for key, inst := range r.instances {
		if p.instances[key] != inst {
			stale = append(stale, inst)
		}
	}
	// Children were created after their parents, so they go first.
	sort.Slice(stale, func(i, j int) bool { return stale[i].seq > stale[j].seq })
	r.instances = p.instances

	var b strings.Builder
	root.writeChildren(&b)
	r.markup = b.String()
	return stale
}

// abort undoes a rejected pass: instances it updated get their committed
// args back and instances it created are destroyed.
func (r *Renderer) abort(p *pass) {
	for i := len(p.updated) - 1; i >= 0; i-- {
		inst := p.updated[i]
		if err := inst.def.Update(inst.state, inst.args); err != nil {
			log.ErrorErr(log.CatRender, "Failed to restore instance args of rejected pass", err,
				"definition", inst.def.Name(), "pass", p.id)
		}
	}
	for i := len(p.created) - 1; i >= 0; i-- {
		inst := p.created[i]
		if err := inst.def.Destroy(inst.state); err != nil {
			log.ErrorErr(log.CatRender, "Failed to destroy instance of rejected pass", err,
				"definition", inst.def.Name(), "pass", p.id)
		}
		inst.destroyed = true
	}
}

func (r *Renderer) didCreate(ctx context.Context, inst *instance) error {
	caps := inst.def.Capabilities()
	if !caps.Has(capability.CreateInstance) || inst.destroyed {
		return nil
	}
	if caps.Has(capability.AsyncLifecycle) {
		var completion component.Completion
		err := r.hook(ctx, inst.def, component.HookDidCreate, func() error {
			var err error
			completion, err = inst.def.DidCreateAsync(inst.state)
			return err
		})
		if err != nil {
			return err
		}
		if completion != nil {
			r.pending = append(r.pending, pendingHook{inst: inst, completion: completion})
		}
		return nil
	}
	return r.hook(ctx, inst.def, component.HookDidCreate, func() error {
		return inst.def.DidCreate(inst.state)
	})
}

// destroy runs WillDestroy when declared, then Destroy, once per instance.
func (r *Renderer) destroy(ctx context.Context, inst *instance) error {
	if inst.destroyed {
		return nil
	}
	inst.destroyed = true

	var errs []error
	if inst.def.Capabilities().Has(capability.WillDestroy) {
		if err := r.hook(ctx, inst.def, component.HookWillDestroy, func() error {
			return inst.def.WillDestroy(inst.state)
		}); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.hook(ctx, inst.def, component.HookDestroy, func() error {
		return inst.def.Destroy(inst.state)
	}); err != nil {
		errs = append(errs, err)
	}
	log.Debug(log.CatRender, "Instance destroyed", "definition", inst.def.Name(), "key", inst.key)
	return errors.Join(errs...)
}

// Settled re-renders while tracked state has changed since the last pass
// and waits for pending asynchronous hooks, bounded by ctx and the settle
// timeout.
func (r *Renderer) Settled(ctx context.Context) error {
	if r.torndown {
		return ErrTornDown
	}
	ctx, span := r.tracer.Start(ctx, tracing.SpanSettle)
	defer span.End()
	if r.settleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.settleTimeout)
		defer cancel()
	}

	var errs []error
	for round := 0; ; round++ {
		stale := r.rendered && r.clock.Revision() != r.lastRevision
		if !stale && len(r.pending) == 0 {
			break
		}
		if round == maxSettleRounds {
			errs = append(errs, fmt.Errorf("not settled after %d rounds", maxSettleRounds))
			break
		}
		if stale {
			if _, err := r.Render(ctx, r.rootValue, r.rootArgs); err != nil {
				errs = append(errs, err)
				break
			}
		}
		if err := r.drain(ctx); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	span.SetAttributes(attribute.Int(tracing.AttrPending, len(r.pending)))
	err := errors.Join(errs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	r.events.Publish(pubsub.SettledEvent, Pass{Revision: r.lastRevision, Markup: r.markup, Instances: len(r.instances)})
	return err
}

func (r *Renderer) drain(ctx context.Context) error {
	var errs []error
	for len(r.pending) > 0 {
		h := r.pending[0]
		select {
		case <-ctx.Done():
			return fmt.Errorf("settle: %d hooks pending: %w", len(r.pending), ctx.Err())
		case err, ok := <-h.completion:
			r.pending = r.pending[1:]
			if ok && err != nil {
				errs = append(errs, &component.ManagerHookError{
					Hook:       component.HookDidCreate,
					Definition: h.inst.def.Name(),
					Err:        err,
				})
			}
		}
	}
	return errors.Join(errs...)
}

// Teardown destroys every instance, newest first. The renderer cannot be
// used afterwards.
func (r *Renderer) Teardown() error {
	if r.torndown {
		return nil
	}
	r.torndown = true

	all := make([]*instance, 0, len(r.instances))
	for _, inst := range r.instances {
		all = append(all, inst)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })

	var errs []error
	for _, inst := range all {
		if err := r.destroy(context.Background(), inst); err != nil {
			errs = append(errs, err)
		}
	}
	r.instances = make(map[string]*instance)
	r.elements = make(map[string]*Element)
	r.doc.c = nil
	r.pending = nil
	r.markup = ""
	r.events.Close()
	log.Debug(log.CatRender, "Renderer torn down", "destroyed", len(all))
	return errors.Join(errs...)
}

// Find returns the first rendered element with tag, in document order.
func (r *Renderer) Find(tag string) *Element {
	var found *Element
	r.doc.c.walkElements(func(el *Element) bool {
		if el.Tag == tag {
			found = el
			return false
		}
		return true
	})
	return found
}

// FindAll returns every rendered element with tag, in document order.
func (r *Renderer) FindAll(tag string) []*Element {
	var out []*Element
	r.doc.c.walkElements(func(el *Element) bool {
		if el.Tag == tag {
			out = append(out, el)
		}
		return true
	})
	return out
}

func (r *Renderer) attached(el *Element) bool {
	return r.elements[el.key] == el
}

func argsEqual(a, b component.Args) bool {
	if component.SameArgs(a, b) {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Struct, reflect.Array, reflect.Interface:
		return reflect.DeepEqual(a, b)
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func describe(value any) string {
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", value)
}
