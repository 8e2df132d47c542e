package semvercore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"v4":       "4.0.0",
		"v4.1":     "4.1.0",
		"v4.1.2":   "4.1.2",
		"4.1.2-rc1": "4.1.2-rc1",
	}
	for in, want := range cases {
		got, ok := Normalize(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}

	_, ok := Normalize("")
	require.False(t, ok)
	_, ok = Normalize("v4.1.2.3")
	require.False(t, ok)
	_, ok = Normalize("vX.Y")
	require.False(t, ok)
}

func TestPartCount(t *testing.T) {
	require.Equal(t, 1, PartCount("v4"))
	require.Equal(t, 2, PartCount("v4.1"))
	require.Equal(t, 3, PartCount("v4.1.2"))
	require.Equal(t, 1, PartCount("4"))
}

func TestVersionMatchesAny(t *testing.T) {
	require.True(t, VersionMatchesAny("v4", []string{"v4.1.2", "v3.0.0"}))
	require.False(t, VersionMatchesAny("v5", []string{"v4.1.2"}))
	require.True(t, VersionMatchesAny("v4.1", []string{"v4.1.9"}))
	require.False(t, VersionMatchesAny("v4.2", []string{"v4.1.9"}))
	require.True(t, VersionMatchesAny("v4.1.2", []string{"v4.1.2"}))
}

func TestCompareMajorOnly(t *testing.T) {
	require.Equal(t, ResultLatest, Compare("v4", "v4.9.0"))
	require.Equal(t, ResultOutdated, Compare("v3", "v4.0.0"))
	require.Equal(t, ResultNewer, Compare("v5", "v4.0.0"))
}

func TestCompareMajorMinor(t *testing.T) {
	require.Equal(t, ResultLatest, Compare("v4.1", "v4.1.9"))
	require.Equal(t, ResultOutdated, Compare("v4.1", "v4.2.0"))
}

func TestCompareFullVersion(t *testing.T) {
	require.Equal(t, ResultLatest, Compare("v4.1.2", "v4.1.2"))
	require.Equal(t, ResultOutdated, Compare("v4.1.2", "v4.1.3"))
	require.Equal(t, ResultNewer, Compare("v4.1.3", "v4.1.2"))
}

func TestCompareInvalid(t *testing.T) {
	require.Equal(t, ResultInvalid, Compare("not-a-version", "v4.1.2"))
	require.Equal(t, ResultInvalid, Compare("v4.1.2", "not-a-version"))
}
