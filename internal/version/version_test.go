package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoMatchesGetters(t *testing.T) {
	v, c, d := Info()
	require.NotEmpty(t, v)
	require.NotEmpty(t, c)
	require.NotEmpty(t, d)

	require.Equal(t, v, GetVersion())
	require.Equal(t, c, GetCommit())
	require.Equal(t, d, GetDate())
}

func TestString(t *testing.T) {
	s := String()
	for _, part := range []string{"version=", "commit=", "date="} {
		require.True(t, strings.Contains(s, part), "missing %q in %q", part, s)
	}
}

func TestBanner(t *testing.T) {
	old := version
	version = "v1.2.0"
	t.Cleanup(func() { version = old })

	require.True(t, strings.HasPrefix(Banner(), "pedidos v1.2.0 (commit "))
}
