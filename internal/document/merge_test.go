package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeNestedSetAndDelete(t *testing.T) {
	old := Doc{
		"name": "p",
		"versions": Doc{
			"1.0.0": Doc{"changes": "a", "files": Doc{"u1": Doc{"dir": "/bin", "name": "f"}}},
			"1.1.0": Doc{"changes": "b"},
		},
	}
	patch := Doc{
		"versions": Doc{
			"1.0.0": Doc{"files": Doc{"u1": nil, "u2": Doc{"dir": "/lib", "name": "g"}}},
			"1.1.0": nil,
		},
	}
	got := Apply(old, patch)
	require.Equal(t, Doc{
		"name": "p",
		"versions": Doc{
			"1.0.0": Doc{"changes": "a", "files": Doc{"u2": Doc{"dir": "/lib", "name": "g"}}},
		},
	}, got)
	// old untouched
	require.Contains(t, old["versions"].(Doc), "1.1.0")
}

func TestMergeDeleteMissingIsNoop(t *testing.T) {
	old := Doc{"screenshots": Doc{"a": "x"}}
	r := Merge(old, Doc{"screenshots": Doc{"nope": nil}})
	require.Equal(t, Keep, r.Outcome)
	require.Equal(t, old, Apply(old, Doc{"screenshots": Doc{"nope": nil}, "other": nil}))
}

func TestMergeScalarReplaceAndLists(t *testing.T) {
	old := Doc{"tags": []any{"a", "b"}, "license": "MIT"}
	got := Apply(old, Doc{"tags": []any{"c"}, "license": "BSD"})
	require.Equal(t, Doc{"tags": []any{"c"}, "license": "BSD"}, got)

	r := Merge("MIT", "MIT")
	require.Equal(t, Keep, r.Outcome)
	r = Merge(Doc{"a": 1}, "x")
	require.Equal(t, Set, r.Outcome)
	require.Equal(t, "x", r.Value)
	r = Merge("x", nil)
	require.Equal(t, Delete, r.Outcome)
}

func TestMergeInsertedSubtreeIsPruned(t *testing.T) {
	got := Apply(Doc{}, Doc{"v": Doc{"files": Doc{"u": nil, "w": Doc{"dir": "/"}}}})
	require.Equal(t, Doc{"v": Doc{"files": Doc{"w": Doc{"dir": "/"}}}}, got)
}

func TestMergeIdempotent(t *testing.T) {
	old := Doc{"a": Doc{"b": 1, "c": Doc{"d": "e"}}, "x": "y"}
	patch := Doc{"a": Doc{"b": 2, "c": nil, "n": Doc{"m": nil, "k": "v"}}, "x": nil}
	once := Apply(old, patch)
	twice := Apply(once, patch)
	require.Equal(t, once, twice)
	require.Equal(t, Doc{"a": Doc{"b": 2, "n": Doc{"k": "v"}}}, once)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNull, KindOf(nil))
	require.Equal(t, KindMap, KindOf(Doc{}))
	require.Equal(t, KindList, KindOf([]any{}))
	require.Equal(t, KindScalar, KindOf(3.0))
	require.Equal(t, "delete", Delete.String())
}
