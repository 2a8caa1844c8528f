package version

import (
	"testing"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{
		"1":     "1.0.0",
		"1.2":   "1.2.0",
		"1.2.3": "1.2.3",
		"v2":    "2.0.0",
	} {
		got, err := Normalize(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	for _, bad := range []string{"", "abc", "x.y.z"} {
		_, err := Normalize(bad)
		require.Error(t, err)
		require.True(t, apperr.IsKind(err, apperr.KindInvalidVersion))
		require.Contains(t, err.Error(), "'"+bad+"'")
	}
}

func TestValidateRange(t *testing.T) {
	for _, ok := range []string{"*", "1.*", "^5", "^3.5.6", "~1.1", "~1.12.51", "1.2.3", ">=1.0 <2.0"} {
		require.NoError(t, ValidateRange(ok), ok)
	}
	for _, bad := range []string{"abc", "^^1", ">>1"} {
		err := ValidateRange(bad)
		require.True(t, apperr.IsKind(err, apperr.KindInvalidRangeSpec), bad)
	}
}

func TestSatisfies(t *testing.T) {
	require.True(t, Satisfies("1.1.5", "~1.1"))
	require.False(t, Satisfies("1.2.0", "~1.1"))
	require.True(t, Satisfies("3.9.0", "^3.5"))
	require.True(t, Satisfies("7.0.0", "*"))
	require.False(t, Satisfies("bad", "*"))
}

func TestLatest(t *testing.T) {
	got, err := Latest(map[string]any{"1.0.0": nil, "1.1.0": nil, "1.1.1": nil})
	require.NoError(t, err)
	require.Equal(t, "1.1.1", got)

	got, err = Latest(map[string]int{"1.10.0": 0, "1.9.0": 0, "1.2.0": 0})
	require.NoError(t, err)
	require.Equal(t, "1.10.0", got)

	_, err = Latest(map[string]any{})
	require.ErrorIs(t, err, ErrNoVersions)
}
