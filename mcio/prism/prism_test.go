package prism_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/mcio/prism"
)

func TestReadTra_Basic(t *testing.T) {
	mc := chain.New(1, 0)
	in := "2 2\n0 1 0.5\n1 0 1.0\n"
	require.NoError(t, prism.ReadTra(mc, strings.NewReader(in)))
	require.Equal(t, 2, mc.SizeStates())
	p, err := mc.EdgeProbability(0, 1)
	require.NoError(t, err)
	require.Equal(t, 0.5, p)
}

func TestReadTra_DuplicateEdge(t *testing.T) {
	mc := chain.New(1, 0)
	in := "2 2\n0 1 0.5\n0 1 0.5\n"
	err := prism.ReadTra(mc, strings.NewReader(in))
	require.ErrorIs(t, err, prism.ErrDuplicateEdge)
}

func TestReadTra_MalformedHeader(t *testing.T) {
	mc := chain.New(1, 0)
	err := prism.ReadTra(mc, strings.NewReader("not a header\n"))
	require.ErrorIs(t, err, prism.ErrMalformedFile)
}

func TestReadTrew_WritesRewardSlot(t *testing.T) {
	mc := chain.New(1, 0)
	require.NoError(t, prism.ReadTra(mc, strings.NewReader("2 1\n0 1 1.0\n")))
	require.NoError(t, prism.ReadTrew(mc, strings.NewReader("2 1\n0 1 3.5\n"), 0))
	r, err := mc.EdgeDecoration(0, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.5, r)
}

func TestReadTrew_UnknownEdge(t *testing.T) {
	mc := chain.New(1, 0)
	require.NoError(t, prism.ReadTra(mc, strings.NewReader("2 1\n0 1 1.0\n")))
	err := prism.ReadTrew(mc, strings.NewReader("2 1\n1 0 3.5\n"), 0)
	require.ErrorIs(t, err, prism.ErrUnknownEdge)
}

func TestReadLabels_SelectsMatchingLabel(t *testing.T) {
	in := "0: 1 2\n1: 2\n2: 3\n"
	s, err := prism.ReadLabels(strings.NewReader(in), 2)
	require.NoError(t, err)
	require.True(t, s.Contains(0))
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(2))
}
