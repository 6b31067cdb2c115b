package herman_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/herman"
	"github.com/nikovasil/mcreward/mcio/targetset"
)

func TestGenerate_SizeThree(t *testing.T) {
	mc := chain.New(1, 0)
	target := targetset.New()
	log, err := herman.Generate(mc, 3, target)
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, 8, mc.SizeStates())
	require.Equal(t, 2, target.Len())
	require.ElementsMatch(t, []int{2, 5}, target.Members())

	// Every state has outgoing edges with unit reward at slot 0 summing
	// probability to 1.
	for _, s := range mc.StateIDs() {
		var total float64
		for _, e := range mc.ForwardEdges(s) {
			total += e.Probability
			require.Len(t, e.Decorations, 1)
			require.Equal(t, 1.0, e.Decorations[0])
		}
		require.InDelta(t, 1.0, total, 1e-9)
	}
}

func TestGenerate_SizeFive(t *testing.T) {
	mc := chain.New(1, 0)
	target := targetset.New()
	log, err := herman.Generate(mc, 5, target)
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, 32, mc.SizeStates())
	require.Equal(t, 2, target.Len())
	require.ElementsMatch(t, []int{10, 21}, target.Members())
}

func TestGenerate_RejectsEvenSize(t *testing.T) {
	mc := chain.New(1, 0)
	target := targetset.New()
	_, err := herman.Generate(mc, 4, target)
	require.ErrorIs(t, err, herman.ErrInvalidArgument)
}

func TestGenerate_RejectsNonEmptyChain(t *testing.T) {
	mc := chain.New(1, 0)
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	target := targetset.New()
	_, err := herman.Generate(mc, 3, target)
	require.ErrorIs(t, err, herman.ErrInvalidArgument)
}

func TestGenerate_RejectsNoRewardSlots(t *testing.T) {
	mc := chain.New(0, 0)
	target := targetset.New()
	_, err := herman.Generate(mc, 3, target)
	require.ErrorIs(t, err, herman.ErrInvalidArgument)
}
