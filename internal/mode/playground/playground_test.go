package playground

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/pubsub"
	"github.com/zjrosen/vellum/internal/render"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{ShowDiff: true})
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Err())
	return m
}

// updateModel is a helper to update the model and return the typed Model.
func updateModel(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	result, _ := m.Update(msg)
	return result.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selectDemo(t *testing.T, m Model, index int) Model {
	t.Helper()
	for m.selected != index {
		m = updateModel(t, m, runes("j"))
	}
	require.NoError(t, m.Err())
	return m
}

func TestNew_LoadsFirstDemo(t *testing.T) {
	m := newTestModel(t)

	require.Equal(t, 0, m.selected)
	require.Equal(t, "<p>Hello, world</p><button>Say hello</button>", m.Scene().Renderer.Markup())
	require.Len(t, m.buttons(), 1)
}

func TestClick_DispatchesCurriedHandler(t *testing.T) {
	m := newTestModel(t)

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NoError(t, m.Err())
	require.Equal(t, []string{"hello world (click on <button>)"}, m.Scene().Activity())
	require.Equal(t, `clicked "Say hello"`, m.status)
}

func TestToggle_HandlerSeesNewTrackedValue(t *testing.T) {
	m := newTestModel(t)

	m = updateModel(t, m, runes("n"))
	require.Equal(t, "name = cruel world", m.status)
	require.Equal(t, "<p>Hello, cruel world</p><button>Say hello</button>", m.Scene().Renderer.Markup())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"hello cruel world (click on <button>)"}, m.Scene().Activity())

	m = updateModel(t, m, runes("n"))
	require.Equal(t, "<p>Hello, world</p><button>Say hello</button>", m.Scene().Renderer.Markup())
}

func TestNestedCurry_AppendsEveryLayer(t *testing.T) {
	m := selectDemo(t, newTestModel(t), 1)
	require.Equal(t, "<div><button>Record</button></div>", m.Scene().Renderer.Markup())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = updateModel(t, m, runes("n"))
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NoError(t, m.Err())
	require.Equal(t, []string{
		"record(1, 2, 3, 4, 5, 6) from <button>",
		"record(10, 2, 3, 4, 5, 6) from <button>",
	}, m.Scene().Activity())
}

func TestLifecycle_CardComesAndGoes(t *testing.T) {
	m := selectDemo(t, newTestModel(t), 2)
	require.Equal(t, "<section><article>Card</article><button>Toggle card</button></section>", m.Scene().Renderer.Markup())
	require.Equal(t, []string{`create Card "Card"`, `didCreate Card "Card"`}, m.Scene().Activity())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NoError(t, m.Err())
	require.Equal(t, "<section><button>Toggle card</button></section>", m.Scene().Renderer.Markup())
	require.Equal(t, []string{
		`create Card "Card"`,
		`didCreate Card "Card"`,
		"button set open = false",
		`willDestroy Card "Card"`,
	}, m.Scene().Activity())

	m = updateModel(t, m, runes("n"))
	require.Equal(t, "open = true", m.status)
	require.Contains(t, m.Scene().Renderer.Markup(), "<article>Card</article>")
	require.Equal(t, `didCreate Card "Card"`, m.Scene().Activity()[len(m.Scene().Activity())-1])
}

func TestDemoSelection_Wraps(t *testing.T) {
	m := newTestModel(t)

	m = updateModel(t, m, runes("k"))
	require.Equal(t, len(m.demos)-1, m.selected)
	m = updateModel(t, m, runes("j"))
	require.Equal(t, 0, m.selected)
}

func TestLoad_TearsDownPreviousScene(t *testing.T) {
	m := selectDemo(t, newTestModel(t), 2)
	old := m.Scene()

	m = updateModel(t, m, runes("j"))

	require.NotSame(t, old, m.Scene())
	require.ErrorIs(t, old.Renderer.Settled(m.ctx), render.ErrTornDown)
	require.Equal(t, `willDestroy Card "Card"`, old.Activity()[len(old.Activity())-1])
}

func TestReset_RebuildsScene(t *testing.T) {
	m := newTestModel(t)
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.Scene().Activity(), 1)

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	require.Empty(t, m.Scene().Activity())
	require.Equal(t, "reset fn: hello world", m.status)
}

func TestFocus_CyclesButtons(t *testing.T) {
	m := newTestModel(t)
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 0, m.focus, "a single button keeps focus")
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, 0, m.focus)
}

func TestPassMsg_RecordsDiff(t *testing.T) {
	m := newTestModel(t)

	m = updateModel(t, m, passMsg{gen: m.gen, event: pubsub.Event[render.Pass]{
		Type:    pubsub.UpdatedEvent,
		Payload: render.Pass{Markup: "<p>Hello, world</p>"},
	}})
	m = updateModel(t, m, passMsg{gen: m.gen, event: pubsub.Event[render.Pass]{
		Type:    pubsub.UpdatedEvent,
		Payload: render.Pass{Markup: "<p>Hello, cruel world</p>"},
	}})

	require.Equal(t, 2, m.passes)
	require.Contains(t, ansi.Strip(m.diff), "{+cruel +}")
	require.Contains(t, ansi.Strip(m.View()), "Last change")
}

func TestCounters(t *testing.T) {
	m := newTestModel(t)
	require.NotContains(t, m.counters(), "memo")
	require.NotContains(t, m.counters(), "dropped")

	memo := curry.NewMemo(time.Minute, time.Minute, true)
	withMemo := New(Options{Env: Env{Memo: memo}})
	t.Cleanup(func() { _ = withMemo.Close() })
	require.NoError(t, withMemo.Err())

	hits, misses := memo.Stats()
	require.Contains(t, withMemo.counters(), fmt.Sprintf("memo %d/%d", hits, hits+misses))
}

func TestPassMsg_IgnoresEarlierScenes(t *testing.T) {
	m := newTestModel(t)

	result, cmd := m.Update(passMsg{gen: m.gen - 1, event: pubsub.Event[render.Pass]{
		Type:    pubsub.UpdatedEvent,
		Payload: render.Pass{Markup: "<p>stale</p>"},
	}})

	require.Nil(t, cmd)
	require.Zero(t, result.(Model).passes)
}

func TestRenderDiff(t *testing.T) {
	require.Empty(t, renderDiff("<p>x</p>", "<p>x</p>"))
	require.Equal(t, "<p>Hello, {+cruel +}world</p>", ansi.Strip(renderDiff("<p>Hello, world</p>", "<p>Hello, cruel world</p>")))
	require.Contains(t, ansi.Strip(renderDiff("<section><article>Card</article></section>", "<section></section>")), "[-<article>Card</article>-]")
}

func TestTokenizeMarkup(t *testing.T) {
	require.Equal(t,
		[]string{"<p class=\"a\">", "Hello", ",", " ", "wörld", "</p>"},
		tokenizeMarkup(`<p class="a">Hello, wörld</p>`))
	require.Equal(t, []string{"a", " ", "<", " ", "b"}, tokenizeMarkup("a < b"))
}

func TestButtonZoneID_RoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 42} {
		got, ok := parseButtonZoneID(makeButtonZoneID(i))
		require.True(t, ok)
		require.Equal(t, i, got)
	}
	for _, bad := range []string{"", "button:", "button:x", "tab:1", "button:-1"} {
		_, ok := parseButtonZoneID(bad)
		require.False(t, ok, bad)
	}
}

func TestView_ShowsDemoAndFooter(t *testing.T) {
	m := newTestModel(t)
	view := ansi.Strip(m.View())

	require.Contains(t, view, "fn: hello world")
	require.Contains(t, view, "lifecycle: class hooks")
	require.Contains(t, view, "Say hello")
	require.Contains(t, view, "toggle state")
}

func TestHelp_Toggles(t *testing.T) {
	m := newTestModel(t)

	m = updateModel(t, m, runes("?"))
	require.True(t, m.showHelp)
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Demo list")
	require.Contains(t, view, "curried three times")

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.showHelp, "keys other than help and quit are swallowed")
	require.Empty(t, m.Scene().Activity())

	m = updateModel(t, m, runes("?"))
	require.False(t, m.showHelp)
}

func TestHelpMarkdown_ListsBindings(t *testing.T) {
	md := helpMarkdown(Demos())
	require.Contains(t, md, "| `tab` | next button |")
	require.Contains(t, md, "- **fn: hello world**:")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	result, cmd := m.Update(runes("q"))

	require.True(t, result.(Model).quitting)
	require.Empty(t, result.(Model).View())
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestProgram_ClickAfterToggle(t *testing.T) {
	tm := teatest.NewTestModel(t, New(Options{ShowDiff: true}), teatest.WithInitialTermSize(100, 30))

	waitFor := func(s string) {
		t.Helper()
		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte(s))
		}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))
	}

	waitFor("Hello, world")
	tm.Send(runes("n"))
	waitFor("cruel world")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitFor("hello cruel world")
	tm.Send(runes("q"))

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, final.quitting)
	require.True(t, strings.HasPrefix(final.status, "clicked"))
}
