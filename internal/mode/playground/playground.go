// Package playground renders the demo components in a terminal UI: clicks
// dispatch their curried handlers, tracked state can be toggled, and each
// committed pass shows up as a markup diff.
package playground

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/vellum/internal/keys"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/pubsub"
	"github.com/zjrosen/vellum/internal/render"
	"github.com/zjrosen/vellum/internal/tracked"
)

const (
	maxActivity   = 8
	maxLogLines   = 200
	logPaneHeight = 6
)

// Options configures the playground.
type Options struct {
	Env           Env
	MarkdownStyle string
	ShowLog       bool
	ShowDiff      bool
}

// passMsg is a pass published by the renderer of scene generation gen.
type passMsg struct {
	gen   int
	event pubsub.Event[render.Pass]
}

// Model holds the playground state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options

	// Demos
	demos    []Demo
	selected int
	scene    *Scene
	gen      int
	passCh   <-chan pubsub.Event[render.Pass]
	focus    int
	status   string
	err      error

	// Pass history, fed by the renderer's broker
	markup   string
	diff     string
	passes   int
	revision tracked.Revision

	// Subscriptions
	invalidations <-chan pubsub.Event[tracked.Revision]
	logListener   *log.LogListener

	// Log pane
	logLines []string
	logView  viewport.Model

	help     help.Model
	showHelp bool

	width    int
	height   int
	quitting bool
}

// New creates the playground and loads the first demo.
func New(opts Options) Model {
	if opts.Env.Clock == nil {
		opts.Env.Clock = tracked.NewClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		ctx:           ctx,
		cancel:        cancel,
		opts:          opts,
		demos:         Demos(),
		invalidations: opts.Env.Clock.Subscribe(ctx),
		logListener:   log.NewListener(ctx),
		logView:       viewport.New(0, logPaneHeight),
		help:          help.New(),
		width:         100,
		height:        30,
	}
	m.logView.Width = m.logWidth()
	m.load(0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		pubsub.ListenCmd(m.ctx, m.invalidations),
		m.listenPasses(),
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Close tears down the loaded demo and ends the subscriptions.
func (m Model) Close() error {
	m.cancel()
	if m.scene == nil {
		return nil
	}
	return m.scene.Close()
}

// Scene returns the loaded demo.
func (m Model) Scene() *Scene { return m.scene }

// Err returns the error of the last render, click or settle.
func (m Model) Err() error { return m.err }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = m.logWidth()
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case passMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.event.Type == pubsub.UpdatedEvent {
			m.recordPass(msg.event.Payload)
		}
		return m, m.listenPasses()

	case pubsub.Event[tracked.Revision]:
		m.revision = msg.Payload
		m.settle()
		return m, pubsub.ListenCmd(m.ctx, m.invalidations)

	case log.LogEvent:
		m.appendLog(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := keys.Playground

	if m.showHelp {
		if key.Matches(msg, k.Help) || msg.String() == "esc" {
			m.showHelp = false
			return m, nil
		}
		if !key.Matches(msg, k.Quit) {
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		if err := m.Close(); err != nil {
			log.ErrorErr(log.CatUI, "Demo teardown failed", err)
		}
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
	case key.Matches(msg, k.Down):
		m.load((m.selected + 1) % len(m.demos))
		return m, m.listenPasses()
	case key.Matches(msg, k.Up):
		m.load((m.selected - 1 + len(m.demos)) % len(m.demos))
		return m, m.listenPasses()
	case key.Matches(msg, k.Rerender):
		m.load(m.selected)
		m.status = "reset " + m.demos[m.selected].Name
		return m, m.listenPasses()
	case key.Matches(msg, k.NextButton):
		m.moveFocus(1)
	case key.Matches(msg, k.PrevButton):
		m.moveFocus(-1)
	case key.Matches(msg, k.Click):
		m.click(m.focus)
	case key.Matches(msg, k.ToggleName):
		m.toggle()
	}
	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := range m.buttons() {
		if z := zone.Get(makeButtonZoneID(i)); z != nil && z.InBounds(msg) {
			m.focus = i
			m.click(i)
			break
		}
	}
	return m, nil
}

// load replaces the current scene with demo i and renders it.
func (m *Model) load(i int) {
	if m.scene != nil {
		if err := m.scene.Close(); err != nil {
			log.ErrorErr(log.CatUI, "Demo teardown failed", err, "demo", m.demos[m.selected].Name)
		}
	}
	m.selected = i
	m.gen++
	m.scene, m.passCh = nil, nil
	m.focus, m.markup, m.diff, m.passes, m.err = 0, "", "", 0, nil

	demo := m.demos[i]
	scene, err := demo.Build(m.opts.Env)
	if err != nil {
		m.err = fmt.Errorf("build %s: %w", demo.Name, err)
		return
	}
	m.scene = scene
	m.passCh = scene.Renderer.Passes(m.ctx)
	m.status = "loaded " + demo.Name
	log.Info(log.CatUI, "Demo loaded", "demo", demo.Name)

	if _, err := scene.Renderer.Render(m.ctx, scene.Root, scene.Args); err != nil {
		m.err = err
		return
	}
	m.settle()
}

// listenPasses waits for the next pass of the current scene.
func (m Model) listenPasses() tea.Cmd {
	if m.passCh == nil {
		return nil
	}
	gen := m.gen
	listen := pubsub.ListenCmd(m.ctx, m.passCh)
	return func() tea.Msg {
		event, ok := listen().(pubsub.Event[render.Pass])
		if !ok {
			return nil
		}
		return passMsg{gen: gen, event: event}
	}
}

func (m *Model) recordPass(p render.Pass) {
	m.passes++
	if p.Markup != m.markup {
		m.diff = renderDiff(m.markup, p.Markup)
		m.markup = p.Markup
	}
}

func (m *Model) settle() {
	if m.scene == nil {
		return
	}
	if err := m.scene.Renderer.Settled(m.ctx); err != nil {
		m.err = err
		log.ErrorErr(log.CatUI, "Settle failed", err)
		return
	}
	if n := len(m.buttons()); m.focus >= n {
		m.focus = max(n-1, 0)
	}
}

func (m Model) buttons() []*render.Element {
	if m.scene == nil {
		return nil
	}
	return m.scene.Renderer.FindAll("button")
}

func (m *Model) moveFocus(delta int) {
	n := len(m.buttons())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

func (m *Model) click(i int) {
	buttons := m.buttons()
	if i < 0 || i >= len(buttons) {
		m.status = "no button to click"
		return
	}
	el := buttons[i]
	m.err = nil
	if err := el.Click(); err != nil {
		if errors.Is(err, render.ErrNoHandler) {
			m.status = fmt.Sprintf("%q has no click handler", el.Text())
			return
		}
		m.err = err
		return
	}
	m.status = fmt.Sprintf("clicked %q", el.Text())
	m.settle()
}

func (m *Model) toggle() {
	if m.scene == nil {
		return
	}
	changed := m.scene.Toggle()
	if changed == "" {
		m.status = "nothing to toggle"
		return
	}
	m.status = changed
	m.err = nil
	m.settle()
}

func (m *Model) appendLog(entry string) {
	m.logLines = append(m.logLines, entry)
	if n := len(m.logLines); n > maxLogLines {
		m.logLines = m.logLines[n-maxLogLines:]
	}
	m.refreshLog()
}
