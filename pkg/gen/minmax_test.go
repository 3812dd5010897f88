package gen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 3, Clamp(1, 3, 7))
	require.Equal(t, 7, Clamp(9, 3, 7))
	require.Equal(t, 5, Clamp(5, 3, 7))
	require.Equal(t, int64(1), Clamp(int64(-4), 1, 10))
}

func TestMinMaxAbs(t *testing.T) {
	require.Equal(t, 2, Min(2, 5))
	require.Equal(t, 5, Max(2, 5))
	require.Equal(t, 4, Abs(-4))
	require.Equal(t, 4.0, Abs(4.0))
}
