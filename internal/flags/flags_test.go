package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "memo on",
			registry: New(map[string]bool{FlagCurryMemo: true}),
			flag:     FlagCurryMemo,
			expected: true,
		},
		{
			name:     "async hooks off",
			registry: New(map[string]bool{FlagAsyncHooks: false}),
			flag:     FlagAsyncHooks,
			expected: false,
		},
		{
			name:     "flag missing from config",
			registry: New(map[string]bool{FlagCurryMemo: true}),
			flag:     FlagAsyncHooks,
			expected: false,
		},
		{
			name:     "unknown flag in config is still readable",
			registry: New(map[string]bool{"experimental": true}),
			flag:     "experimental",
			expected: true,
		},
		{
			name:     "nil registry",
			registry: nil,
			flag:     FlagCurryMemo,
			expected: false,
		},
		{
			name:     "nil map",
			registry: New(nil),
			flag:     FlagCurryMemo,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_All(t *testing.T) {
	r := New(map[string]bool{FlagCurryMemo: true, FlagAsyncHooks: false})
	require.Equal(t, map[string]bool{FlagCurryMemo: true, FlagAsyncHooks: false}, r.All())

	var nilRegistry *Registry
	require.Empty(t, nilRegistry.All())
	require.NotNil(t, nilRegistry.All(), "callers may write into the result")
}

func TestRegistry_AllIsACopy(t *testing.T) {
	r := New(map[string]bool{FlagAsyncHooks: true})

	values := r.All()
	values[FlagAsyncHooks] = false
	values[FlagCurryMemo] = true

	require.True(t, r.Enabled(FlagAsyncHooks))
	require.False(t, r.Enabled(FlagCurryMemo))
}

func TestNew_CopiesInput(t *testing.T) {
	in := map[string]bool{FlagCurryMemo: true}
	r := New(in)
	in[FlagCurryMemo] = false

	require.True(t, r.Enabled(FlagCurryMemo))
}

func TestKnown(t *testing.T) {
	require.Equal(t, []string{FlagAsyncHooks, FlagCurryMemo}, Known())
	for _, name := range Known() {
		require.NotEmpty(t, Describe(name), name)
	}
	require.Empty(t, Describe("nope"))
}
