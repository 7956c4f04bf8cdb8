package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vellum/internal/capability"
	"github.com/zjrosen/vellum/internal/component"
)

type greeting struct {
	Text string
}

func greetingFunction() *Function {
	return &Function{
		Name: "Greeting",
		Setup: func(args component.Args) (any, error) {
			if args["fail"] == true {
				return nil, errors.New("setup failed")
			}
			return &greeting{Text: args["salutation"].(string) + " " + args["name"].(string)}, nil
		},
		Defaults: component.Args{"salutation": "hello"},
	}
}

func TestFunctionManager_Capabilities(t *testing.T) {
	m := NewFunctionManager()
	require.Equal(t, []string{"prepare-args", "create-args", "update-hook"}, m.Capabilities(nil).Names())
	require.Equal(t, "function", m.Kind())
}

func TestFunctionManager_PrepareArgs(t *testing.T) {
	m := NewFunctionManager()
	f := greetingFunction()

	complete := component.Args{"salutation": "hi", "name": "bob"}
	out, err := m.PrepareArgs(f, complete)
	require.NoError(t, err)
	require.True(t, component.SameArgs(complete, out), "unchanged args are returned as-is")

	partial := component.Args{"name": "bob"}
	out, err = m.PrepareArgs(f, partial)
	require.NoError(t, err)
	require.False(t, component.SameArgs(partial, out))
	require.Equal(t, component.Args{"salutation": "hello", "name": "bob"}, out)
	require.Equal(t, component.Args{"name": "bob"}, partial, "input is not mutated")
}

func TestFunctionManager_Lifecycle(t *testing.T) {
	m := NewFunctionManager()
	def, err := component.Define[*Function]("Greeting", m, greetingFunction(), 3)
	require.NoError(t, err)

	args, err := def.PrepareArgs(component.Args{"name": "world"})
	require.NoError(t, err)
	state, err := def.Create(nil, args)
	require.NoError(t, err)
	require.Equal(t, "hello world", def.Self(state).(*greeting).Text)

	require.NoError(t, def.Update(state, component.Args{"salutation": "bye", "name": "world"}))
	require.Equal(t, "bye world", def.Self(state).(*greeting).Text)

	err = def.Update(state, component.Args{"fail": true})
	require.EqualError(t, err, "setup failed")
	require.Equal(t, "bye world", def.Self(state).(*greeting).Text, "failed setup keeps the previous self")

	require.ErrorIs(t, def.DidCreate(state), component.ErrCapabilityViolation)
	require.ErrorIs(t, def.WillDestroy(state), component.ErrCapabilityViolation)

	require.NoError(t, def.Destroy(state))
	require.Nil(t, def.Self(state))
	require.ErrorIs(t, def.Destroy(state), ErrAlreadyDestroyed)
}

func TestFunctionManager_NoSetup(t *testing.T) {
	m := NewFunctionManager()
	args := component.Args{"a": 1}
	state, err := m.Create(nil, &Function{Name: "Echo"}, args)
	require.NoError(t, err)
	require.Equal(t, args, m.Self(state))
}

func TestTemplateOnlyManager(t *testing.T) {
	m := NewTemplateOnlyManager()
	a := TemplateOnlyComponent("Card")
	b := TemplateOnlyComponent("Card")
	require.NotSame(t, a, b)
	require.True(t, m.Capabilities(a).Empty())
	require.Equal(t, "template-only", m.Kind())

	def, err := component.Define[*TemplateOnly]("Card", m, a, 1)
	require.NoError(t, err)
	require.Equal(t, capability.New(), def.Capabilities())

	state, err := def.Create(nil, component.Args{"ignored": true})
	require.NoError(t, err)
	require.Nil(t, def.Self(state))

	_, err = def.PrepareArgs(nil)
	require.ErrorIs(t, err, component.ErrCapabilityViolation)
	require.ErrorIs(t, def.Update(state, nil), component.ErrCapabilityViolation)

	require.NoError(t, def.Destroy(state))
	require.ErrorIs(t, def.Destroy(state), ErrAlreadyDestroyed)
}
