package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikovasil/mcreward/analyzer"
	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/mcio/targetset"
)

func TestBuildTAPM_TargetRowZeroed(t *testing.T) {
	mc := chain.New(1, 1)
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	target := targetset.New()
	target.Add(1)

	p, err := analyzer.BuildTAPM(mc, target)
	require.NoError(t, err)
	require.Equal(t, 1.0, p.At(0, 1))
	require.Equal(t, 0.0, p.At(1, 0)) // 1 has no outgoing edges anyway, and is a target
}

func TestRewardedImage_ZeroReward(t *testing.T) {
	mc := chain.New(1, 1)
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	target := targetset.New()
	target.Add(1)

	p, err := analyzer.BuildTAPM(mc, target)
	require.NoError(t, err)
	b, err := analyzer.RewardedImage(p, mc, 0)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, b)
}

func TestRewardedImage_NonZeroReward(t *testing.T) {
	mc := chain.New(1, 1)
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 5))
	target := targetset.New()
	target.Add(1)

	p, err := analyzer.BuildTAPM(mc, target)
	require.NoError(t, err)
	b, err := analyzer.RewardedImage(p, mc, 0)
	require.NoError(t, err)
	require.Equal(t, -5.0, b[0])
	require.Equal(t, 0.0, b[1])
}

func TestComposeVarianceReward_Formula(t *testing.T) {
	mc := chain.New(2, 1) // slot0=basic reward, slot1=variance-free reward; decoration slot0=expectation
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 3)) // r(0,1) = 3
	require.NoError(t, mc.SetStateDecorationVector(map[int]float64{0: 10, 1: 4}, 0))

	require.NoError(t, analyzer.ComposeVarianceReward(mc, 0, 0, 1))

	got, err := mc.EdgeDecoration(0, 1, 1)
	require.NoError(t, err)
	// factor = (s(1) + r) - s(0) = (4+3) - 10 = -3; variance reward = 9
	require.Equal(t, 9.0, got)
}

func TestComposeCovarianceReward_SymmetricWithSelf(t *testing.T) {
	mc := chain.New(3, 2) // slot0 = reward used as both r1 and r2 (slot1 holds the same value, unused); slot2 = free; decoration slot0 = e1 = e2
	require.NoError(t, mc.AddEdge(0, 1, 1.0))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 0, 2))
	require.NoError(t, mc.SetEdgeDecoration(0, 1, 1, 2))
	require.NoError(t, mc.SetStateDecorationVector(map[int]float64{0: 1, 1: 1}, 0))
	require.NoError(t, mc.SetStateDecorationVector(map[int]float64{0: 1, 1: 1}, 1))

	require.NoError(t, analyzer.ComposeCovarianceReward(mc, 0, 0, 0, 0, 2))
	cov, err := mc.EdgeDecoration(0, 1, 2)
	require.NoError(t, err)

	varMc := chain.New(2, 1)
	require.NoError(t, varMc.AddEdge(0, 1, 1.0))
	require.NoError(t, varMc.SetEdgeDecoration(0, 1, 0, 2))
	require.NoError(t, varMc.SetStateDecorationVector(map[int]float64{0: 1, 1: 1}, 0))
	require.NoError(t, analyzer.ComposeVarianceReward(varMc, 0, 0, 1))
	variance, err := varMc.EdgeDecoration(0, 1, 1)
	require.NoError(t, err)

	require.Equal(t, variance, cov)
}
