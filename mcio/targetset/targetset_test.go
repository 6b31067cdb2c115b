package targetset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikovasil/mcreward/mcio/targetset"
)

func TestSet_AddContainsLen(t *testing.T) {
	s := targetset.New()
	require.Equal(t, 0, s.Len())
	s.Add(3)
	s.Add(5)
	s.Add(3)
	require.Equal(t, 2, s.Len())
	require.True(t, s.Contains(3))
	require.False(t, s.Contains(4))
}

func TestFromIntStream(t *testing.T) {
	s, err := targetset.FromIntStream(strings.NewReader("1 2\n3\t4\n"))
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())
	for _, id := range []int{1, 2, 3, 4} {
		require.True(t, s.Contains(id))
	}
}

func TestFromIntStream_BadToken(t *testing.T) {
	_, err := targetset.FromIntStream(strings.NewReader("1 two 3"))
	require.Error(t, err)
}

func TestFromPrismLabels(t *testing.T) {
	in := "0: 1 2\n1: 2\n2:\n"
	s, err := targetset.FromPrismLabels(strings.NewReader(in), 2)
	require.NoError(t, err)
	require.True(t, s.Contains(0))
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(2))
}

func TestFromPrismLabels_Malformed(t *testing.T) {
	_, err := targetset.FromPrismLabels(strings.NewReader("not a label line"), 0)
	require.Error(t, err)
}
