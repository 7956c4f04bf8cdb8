package capability

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

func TestNew_EmptyDeclaresNothing(t *testing.T) {
	s := New()
	require.True(t, s.Empty())
	require.Zero(t, s.Len())
	for _, f := range All() {
		require.False(t, s.Has(f), f.String())
	}
	require.Equal(t, "capabilities{}", s.String())
}

func TestNew_PresentFlagsOnly(t *testing.T) {
	s := New(PrepareArgs, UpdateHook)

	require.True(t, s.Has(PrepareArgs))
	require.True(t, s.Has(UpdateHook))
	require.False(t, s.Has(WillDestroy))
	require.False(t, s.Has(0), "the zero flag is never present")
	require.Equal(t, []Flag{PrepareArgs, UpdateHook}, s.Flags())
	require.Equal(t, "capabilities{prepare-args,update-hook}", s.String())
}

func TestWith_ReturnsNewValue(t *testing.T) {
	base := New(CreateInstance)

	more := base.With(WillDestroy)

	require.Equal(t, []Flag{CreateInstance}, base.Flags(), "base is unchanged")
	require.Equal(t, []Flag{CreateInstance, WillDestroy}, more.Flags())
}

func TestFlag_String(t *testing.T) {
	require.Equal(t, "dynamic-layout", DynamicLayout.String())
	require.Equal(t, "async-lifecycle", AsyncLifecycle.String())
	require.Equal(t, "capability(0x0)", Flag(0).String())
	require.Equal(t, "capability(0x3)", (DynamicLayout | DynamicTag).String())
}

func TestParse(t *testing.T) {
	s, err := Parse("update-hook", " Will-Destroy ")
	require.NoError(t, err)
	require.True(t, s.Equal(New(UpdateHook, WillDestroy)))

	_, err = Parse("update-hook", "teleport")
	require.ErrorIs(t, err, ErrUnknownFlag)
	require.Contains(t, err.Error(), `"teleport"`)
}

func TestMarshal(t *testing.T) {
	s := New(CreateArgs, HasSubOwner)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `["create-args","has-sub-owner"]`, string(data))

	out, err := yaml.Marshal(map[string]Set{"caps": s})
	require.NoError(t, err)
	require.Equal(t, "caps:\n    - create-args\n    - has-sub-owner\n", string(out))
}

func TestProperty_HasIffPresent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := All()
		mask := rapid.SliceOfN(rapid.Bool(), len(all), len(all)).Draw(t, "mask")
		var picked []Flag
		for i, on := range mask {
			if on {
				picked = append(picked, all[i])
			}
		}

		s := New(picked...)

		present := make(map[Flag]bool, len(picked))
		for _, f := range picked {
			present[f] = true
		}
		for _, f := range all {
			if s.Has(f) != present[f] {
				t.Fatalf("Has(%s) = %v, want %v", f, s.Has(f), present[f])
			}
		}
		if s.Len() != len(picked) {
			t.Fatalf("Len = %d, want %d", s.Len(), len(picked))
		}

		roundTrip, err := Parse(s.Names()...)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !roundTrip.Equal(s) {
			t.Fatalf("round trip %s != %s", roundTrip, s)
		}
	})
}

func TestProperty_CopiesAreIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := All()
		f := rapid.SampledFrom(all).Draw(t, "flag")
		g := rapid.SampledFrom(all).Draw(t, "other")

		original := New(f)
		_ = original.With(g)

		if !original.Has(f) || original.Len() != 1 {
			t.Fatalf("original changed: %s", original)
		}
	})
}
