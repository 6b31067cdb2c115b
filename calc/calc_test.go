package calc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikovasil/mcreward/calc"
	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/mcio/targetset"
)

// A two-state chain 0 -> 1 (target) with a unit reward on the edge:
// expected accumulated reward from 0 is exactly 1, and 0 from the
// target itself.
func TestExpectation_SingleStep(t *testing.T) {
	mc := chain.New(1, 1)
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 1.0))
	target := targetset.New()
	target.Add(1)

	log, err := calc.Expectation(mc, 0, target, 0)
	require.NoError(t, err)
	require.NotNil(t, log)

	e0, err := mc.StateDecoration(0, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, e0, 1e-6)

	e1, err := mc.StateDecoration(1, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.0, e1, 1e-6)
}

// A two-step chain 0 -> 1 -> 2(target) with unit rewards: expectation
// from 0 is 2, from 1 is 1, deterministic so variance is 0.
func TestVariance_DeterministicChainIsZero(t *testing.T) {
	mc := chain.New(2, 2) // edge slot0 = base reward, slot1 = free/variance reward; state slot0 = variance, slot1 = expect
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	require.NoError(t, mc.AddEdge(1, 2, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(1, 2, 0, 1.0))
	target := targetset.New()
	target.Add(2)

	log, err := calc.Variance(mc, 0, target, 0, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, log)

	expect0, err := mc.StateDecoration(0, 1)
	require.NoError(t, err)
	require.InDelta(t, 2.0, expect0, 1e-6)

	variance0, err := mc.StateDecoration(0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.0, variance0, 1e-3)
}

// Geometric-like chain: 0->1 (p=0.5), 0->0 (p=0.5), 1->2 (p=1), all
// rewards 1, target {2}. Expected accumulated reward from 0 is 3
// (geometric number of self-loops before advancing, plus 1 for 1->2);
// from 1 it is 1.
func TestExpectation_GeometricChain(t *testing.T) {
	mc := chain.New(1, 1)
	require.NoError(t, mc.AddEdge(0, 1, 0.5))
	require.NoError(t, mc.AddEdge(0, 0, 0.5))
	require.NoError(t, mc.AddEdge(1, 2, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 0, 0, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(1, 2, 0, 1.0))
	target := targetset.New()
	target.Add(2)

	log, err := calc.Expectation(mc, 0, target, 0)
	require.NoError(t, err)
	require.NotNil(t, log)

	e0, err := mc.StateDecoration(0, 0)
	require.NoError(t, err)
	require.InDelta(t, 3.0, e0, 1e-6)

	e1, err := mc.StateDecoration(1, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, e1, 1e-6)
}

// On the same geometric chain, variance is non-negative everywhere and
// strictly positive at state 0, which has a genuinely random number of
// self-loops before absorption (closed form: Var(0)=2, Var(1)=Var(2)=0).
func TestVariance_NonNegative(t *testing.T) {
	mc := chain.New(2, 2) // edge slot0 = reward, slot1 = free/variance reward; state slot0 = variance, slot1 = expect
	require.NoError(t, mc.AddEdge(0, 1, 0.5))
	require.NoError(t, mc.AddEdge(0, 0, 0.5))
	require.NoError(t, mc.AddEdge(1, 2, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 0, 0, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(1, 2, 0, 1.0))
	target := targetset.New()
	target.Add(2)

	log, err := calc.Variance(mc, 0, target, 0, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, log)

	for _, u := range mc.StateIDs() {
		v, err := mc.StateDecoration(u, 0)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0, "variance must be non-negative at state %d", u)
	}

	variance0, err := mc.StateDecoration(0, 0)
	require.NoError(t, err)
	require.InDelta(t, 2.0, variance0, 1e-3)

	variance1, err := mc.StateDecoration(1, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.0, variance1, 1e-3)
}

// Covariance is symmetric in its two reward streams: running the same
// pass with reward-slot (and matching expectation-slot) roles swapped
// must produce the same covariance at every state.
func TestCovariance_Symmetric(t *testing.T) {
	mc := chain.New(4, 4) // edge: 0=rewardA, 1=rewardB, 2=freeA, 3=freeB; state: 0=expA, 1=expB, 2=covA, 3=covB
	require.NoError(t, mc.AddEdge(0, 1, 0.5))
	require.NoError(t, mc.AddEdge(0, 0, 0.5))
	require.NoError(t, mc.AddEdge(1, 2, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 2.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 0, 0, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(1, 2, 0, 4.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 1, 3.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 0, 1, 0.5))
	require.NoError(t, mc.SetEdgeDecoration(1, 2, 1, 0.0))
	target := targetset.New()
	target.Add(2)

	_, err := calc.Covariance(mc, 0, 1, target, 2, 0, 1, 2)
	require.NoError(t, err)
	_, err = calc.Covariance(mc, 1, 0, target, 3, 1, 0, 3)
	require.NoError(t, err)

	for _, u := range mc.StateIDs() {
		covAB, err := mc.StateDecoration(u, 2)
		require.NoError(t, err)
		covBA, err := mc.StateDecoration(u, 3)
		require.NoError(t, err)
		require.InDelta(t, covAB, covBA, 1e-6, "covariance must be symmetric at state %d", u)
	}
}
