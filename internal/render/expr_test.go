package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/tracked"
)

type address struct {
	City string
}

func (a *address) Describe(prefix string) string { return prefix + a.City }

type person struct {
	Name    string
	Home    *address
	Tags    map[string]any
	Score   *tracked.Cell[int]
	private string
}

func (p *person) Greet(s string) string { return s + " " + p.Name }

func TestWalk(t *testing.T) {
	clock := tracked.NewClock()
	defer clock.Close()
	p := &person{
		Name:    "Ada",
		Home:    &address{City: "London"},
		Tags:    map[string]any{"role": "admin"},
		Score:   tracked.NewCell(clock, 7),
		private: "hidden",
	}

	require.Same(t, p, walk(p, nil, true))
	require.Equal(t, "Ada", walk(p, splitPath("name"), true))
	require.Equal(t, "Ada", walk(p, splitPath("Name"), true))
	require.Equal(t, "London", walk(p, splitPath("home.city"), true))
	require.Equal(t, "admin", walk(p, splitPath("tags.role"), true))
	require.Same(t, p.Score, walk(p, splitPath("score"), true))
	require.Nil(t, walk(p, splitPath("private"), true), "unexported fields are invisible")
	require.Nil(t, walk(p, splitPath("missing.deeper"), true))
	require.Nil(t, walk(nil, splitPath("name"), true))

	require.Equal(t, curry.Method("Greet"), walk(p, splitPath("greet"), true))

	bound, ok := walk(p, splitPath("home.describe"), true).(curry.Callable)
	require.True(t, ok, "methods below this are bound to their owner")
	got, err := bound(nil, "in ")
	require.NoError(t, err)
	require.Equal(t, "in London", got)

	fromArg, ok := walk(p, splitPath("greet"), false).(curry.Callable)
	require.True(t, ok, "methods reached through an argument are bound")
	got, err = fromArg(nil, "hi")
	require.NoError(t, err)
	require.Equal(t, "hi Ada", got)
}

func TestArgExpr(t *testing.T) {
	f := &frame{args: component.Args{"user": map[string]any{"name": "bob"}, "n": 3}}

	v, err := Arg("n").eval(f)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	v, err = Arg("user.name").eval(f)
	require.NoError(t, err)
	require.Equal(t, "bob", v)

	v, err = Arg("absent").eval(f)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, "x", 1, uint(1), 1.5, []int{1}, map[string]int{"a": 1}, &address{}, struct{}{}} {
		require.True(t, truthy(v), "%#v", v)
	}
	var nilPtr *address
	for _, v := range []any{nil, false, "", 0, uint(0), 0.0, []int{}, map[string]int{}, nilPtr} {
		require.False(t, truthy(v), "%#v", v)
	}
}

func TestExported(t *testing.T) {
	require.Equal(t, "Name", exported("name"))
	require.Equal(t, "Name", exported("Name"))
	require.Equal(t, "", exported(""))
	require.Equal(t, "Été", exported("été"))
}

func TestDeref(t *testing.T) {
	clock := tracked.NewClock()
	defer clock.Close()
	require.Equal(t, "v", deref(tracked.NewCell(clock, "v")))
	require.Equal(t, 1, deref(1))
	require.Nil(t, deref(nil))
}
