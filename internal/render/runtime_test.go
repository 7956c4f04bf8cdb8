package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/manager"
)

func TestRuntime_DefineKinds(t *testing.T) {
	rt := NewRuntime()
	tpl := NewTemplate(nil, Text("x"))

	class, err := rt.DefineClass("Class", func(any, component.Args) (any, error) { return &struct{}{}, nil }, tpl)
	require.NoError(t, err)
	fn, err := rt.DefineFunction(&manager.Function{Name: "Fn"}, nil)
	require.NoError(t, err)
	only, err := rt.DefineTemplateOnly("Only", tpl)
	require.NoError(t, err)

	defs := rt.Definitions()
	require.Len(t, defs, 3)
	require.Equal(t, []string{"Class", "Fn", "Only"}, []string{defs[0].Name(), defs[1].Name(), defs[2].Name()})
	require.Equal(t, []string{"class", "function", "template-only"}, []string{defs[0].Kind(), defs[1].Kind(), defs[2].Kind()})
	require.Equal(t, component.Handle(1), defs[0].Handle())

	for _, v := range []any{class, fn, only} {
		def, ok := rt.Resolve(v)
		require.True(t, ok)
		require.Same(t, v, def.ComponentValue())
	}

	got, ok := rt.TemplateFor(class)
	require.True(t, ok)
	require.Same(t, tpl, got)
	_, ok = rt.TemplateFor(fn)
	require.False(t, ok)
}

func TestRuntime_SharedCapabilities(t *testing.T) {
	rt := NewRuntime(WithAsyncHooks(true))
	ctor := func(any, component.Args) (any, error) { return &struct{}{}, nil }
	a, err := rt.DefineClass("A", ctor, nil)
	require.NoError(t, err)
	b, err := rt.DefineClass("B", ctor, nil)
	require.NoError(t, err)

	da, _ := rt.Resolve(a)
	db, _ := rt.Resolve(b)
	require.True(t, da.Capabilities().Equal(db.Capabilities()))
	require.True(t, da.Capabilities().Has(capability.AsyncLifecycle))
	require.False(t, NewRuntime().ClassManager().Capabilities(nil).Has(capability.AsyncLifecycle))
}

func TestRuntime_DuplicateValue(t *testing.T) {
	rt := NewRuntime()
	only := manager.TemplateOnlyComponent("Card")

	_, err := Define[*manager.TemplateOnly](rt, "Card", rt.TemplateOnlyManager(), only, nil)
	require.NoError(t, err)
	_, err = Define[*manager.TemplateOnly](rt, "Card", rt.TemplateOnlyManager(), only, nil)
	require.ErrorIs(t, err, component.ErrDuplicateComponent)

	// The failed definition gave its handle back.
	other, err := rt.DefineTemplateOnly("Other", nil)
	require.NoError(t, err)
	def, _ := rt.Resolve(other)
	require.Equal(t, component.Handle(2), def.Handle())
}

func TestRuntime_UndefineAndClose(t *testing.T) {
	rt := NewRuntime()
	only, err := rt.DefineTemplateOnly("Card", NewTemplate(nil))
	require.NoError(t, err)

	require.True(t, rt.Undefine(only))
	require.False(t, rt.Undefine(only))
	_, ok := rt.Resolve(only)
	require.False(t, ok)
	_, ok = rt.TemplateFor(only)
	require.False(t, ok)

	again, err := rt.DefineTemplateOnly("Again", nil)
	require.NoError(t, err)
	def, _ := rt.Resolve(again)
	require.Equal(t, component.Handle(1), def.Handle(), "handles are reused")

	rt.Close()
	require.Empty(t, rt.Definitions())
	_, err = rt.DefineTemplateOnly("Late", nil)
	require.ErrorIs(t, err, component.ErrRegistryClosed)
}

func TestRuntime_SetComponentTemplate(t *testing.T) {
	rt := NewRuntime()
	require.ErrorIs(t, rt.SetComponentTemplate(nil, NewTemplate(nil)), ErrUnkeyable)
	require.ErrorIs(t, rt.SetComponentTemplate([]int{1}, NewTemplate(nil)), ErrUnkeyable)

	type tagged struct{ Meta any }
	require.NotPanics(t, func() {
		require.ErrorIs(t, rt.SetComponentTemplate(tagged{Meta: []string{"x"}}, NewTemplate(nil)), ErrUnkeyable)
		_, ok := rt.TemplateFor(tagged{Meta: []string{"x"}})
		require.False(t, ok)
	})
	require.NoError(t, rt.SetComponentTemplate(tagged{Meta: "x"}, NewTemplate(nil)))

	only := manager.TemplateOnlyComponent("Card")
	first, second := NewTemplate(nil), NewTemplate(nil)
	require.NoError(t, rt.SetComponentTemplate(only, first))
	require.NoError(t, rt.SetComponentTemplate(only, second))
	got, ok := rt.TemplateFor(only)
	require.True(t, ok)
	require.Same(t, second, got)
}
