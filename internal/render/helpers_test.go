package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vellum/internal/component"
	"github.com/zjrosen/vellum/internal/manager"
	"github.com/zjrosen/vellum/internal/tracked"
)

// clickRecord is one observed handler call.
type clickRecord struct {
	this any
	args []any
}

// greeter is a class component with a tracked name.
type greeter struct {
	manager.Base
	Name   *tracked.Cell[string]
	clicks []clickRecord
}

func (g *greeter) UserDidClick(msg1, msg2 string, ev any) {
	g.clicks = append(g.clicks, clickRecord{this: g, args: []any{msg1, msg2, ev}})
}

// lifecycle records hook order for class components.
type lifecycle struct {
	manager.Base
	name string
	log  *[]string
}

func (l *lifecycle) DidCreate() error {
	*l.log = append(*l.log, "didCreate:"+l.name)
	return nil
}

func (l *lifecycle) WillDestroy() error {
	*l.log = append(*l.log, "willDestroy:"+l.name)
	return nil
}

func lifecycleClass(name string, log *[]string) manager.Constructor {
	return func(owner any, args component.Args) (any, error) {
		*log = append(*log, "create:"+name)
		return &lifecycle{Base: manager.NewBase(owner, args), name: name, log: log}, nil
	}
}

func mustRender(t *testing.T, r *Renderer, value any, args component.Args) string {
	t.Helper()
	out, err := r.Render(context.Background(), value, args)
	require.NoError(t, err)
	return out
}
