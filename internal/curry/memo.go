package curry

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/zjrosen/vellum/internal/cachemanager"
)

// Key returns the memo key for a (target, receiver, args) tuple. The second
// result is false when some part has no stable identity (closures, maps,
// slices), in which case the tuple must not be memoized.
//
// A *Value target is keyed by what it binds, not by its address: composing
// it yields the same value as currying its target with the bound arguments
// followed by args, so both share a key.
func Key(target any, receiver any, args ...any) (string, bool) {
	if prior, ok := target.(*Value); ok {
		if prior == nil {
			return "", false
		}
		all := make([]any, 0, len(prior.bound)+len(args))
		all = append(all, prior.bound...)
		all = append(all, args...)
		return Key(prior.target, prior.receiver, all...)
	}

	var b strings.Builder

	switch t := target.(type) {
	case MethodRef:
		b.WriteString("method:" + t.Name)
	default:
		// Distinct closures can share a code pointer, so functions are never keyed.
		return "", false
	}

	b.WriteString("|")
	if !writeIdentity(&b, receiver) {
		return "", false
	}
	for _, arg := range args {
		b.WriteString("|")
		if !writeIdentity(&b, arg) {
			return "", false
		}
	}
	return b.String(), true
}

func writeIdentity(b *strings.Builder, v any) bool {
	if v == nil {
		b.WriteString("nil")
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		fmt.Fprintf(b, "%T@%p", v, v)
		return true
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		fmt.Fprintf(b, "%T=%#v", v, v)
		return true
	}
	return false
}

type request struct {
	target   any
	receiver any
	args     []any
}

// Memo hands out the same *Value for an unchanged tuple. Every hit restarts
// the entry's ttl, so curries rebuilt on each pass stay memoized. Tuples
// without a stable key are always curried fresh.
type Memo struct {
	cache *cachemanager.InMemoryCacheManager[string, *Value]
	rt    *cachemanager.ReadThroughCache[string, *Value, request]
	ttl   time.Duration
}

// NewMemo creates a memo. With enabled false every call curries fresh.
func NewMemo(ttl, cleanup time.Duration, enabled bool) *Memo {
	cache := cachemanager.NewInMemoryCacheManager[string, *Value]("curry", ttl, cleanup)
	rt := cachemanager.NewReadThroughCache[string, *Value, request](cache,
		func(_ context.Context, r request) (*Value, error) {
			return New(r.target, r.receiver, r.args...)
		}, !enabled)
	return &Memo{cache: cache, rt: rt, ttl: ttl}
}

// Curry returns a memoized curry of target.
func (m *Memo) Curry(ctx context.Context, target any, receiver any, args ...any) (*Value, error) {
	key, ok := Key(target, receiver, args...)
	if !ok {
		return New(target, receiver, args...)
	}
	return m.rt.GetWithRefresh(ctx, key, request{target: target, receiver: receiver, args: args}, m.ttl)
}

// Flush forgets every memoized value.
func (m *Memo) Flush(ctx context.Context) error {
	return m.cache.Flush(ctx)
}

// Misses returns how many curries were built because no memoized value
// matched.
func (m *Memo) Misses() uint64 {
	return m.rt.Loads()
}

// Stats returns how many lookups found a memoized value and how many did
// not. Tuples without a stable key are not counted.
func (m *Memo) Stats() (hits, misses uint64) {
	return m.cache.Stats()
}

// Len returns the number of memoized values.
func (m *Memo) Len() int {
	return m.cache.Len()
}
