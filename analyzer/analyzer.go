// Package analyzer builds the target-adjusted probability matrix
// (TAPM) for a chain and target set, computes rewarded image vectors
// (the right-hand side of the expectation equation), and composes the
// variance and covariance edge rewards from existing rewards and
// state expectations.
//
// Dense-integer-ID invariant: every function in this package assumes
// the chain's state identifiers already form a dense enumeration
// [0, mc.SizeStates()) used directly as matrix row/column indices.
// BuildTAPM returns an error when an edge it enters into the matrix
// has an endpoint outside that range; renumbering state IDs into a
// contiguous index space, if needed, is the caller's responsibility
// and is not performed here.
package analyzer

import (
	"fmt"

	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/sparsemat"
)

// ErrDecorationOutOfRange is chain.ErrDecorationOutOfRange under this
// package's name: reward and decoration slot arguments are range-checked
// by the chain accessors this package calls, and errors.Is matches the
// returned errors against either name.
var ErrDecorationOutOfRange = chain.ErrDecorationOutOfRange

// BuildTAPM constructs the target-adjusted probability matrix P for mc
// and target: P[u][v] = mc.EdgeProbability(u,v) for every edge (u,v)
// with u not in target; all other entries (including every entry of a
// row u in target) are zero.
// Complexity: O(E).
func BuildTAPM(mc *chain.Chain, target Set) (*sparsemat.Matrix, error) {
	n := mc.SizeStates()
	p, err := sparsemat.New(n, n)
	if err != nil {
		return nil, fmt.Errorf("analyzer.BuildTAPM: %w", err)
	}

	for _, u := range mc.StateIDs() {
		if target.Contains(u) {
			continue
		}
		for _, e := range mc.ForwardEdges(u) {
			if err := p.Set(u, e.To, e.Probability); err != nil {
				return nil, fmt.Errorf("analyzer.BuildTAPM: state id %d exceeds dense-index assumption: %w", u, err)
			}
		}
	}

	return p, nil
}

// Set is the minimal membership interface BuildTAPM needs from a
// target set, so this package does not depend on mcio/targetset's
// construction details (only on Contains).
type Set interface {
	Contains(id int) bool
}

// RewardedImage computes b[u] = -sum_v P[u][v] * mc.EdgeDecoration(u,v,rewardSlot),
// the right-hand side of the expectation equation (P - I) x = b.
// Complexity: O(nnz(P)).
func RewardedImage(p *sparsemat.Matrix, mc *chain.Chain, rewardSlot int) ([]float64, error) {
	n := p.Rows()
	b := make([]float64, n)
	for u := 0; u < n; u++ {
		var sum float64
		for v, prob := range p.Row(u) {
			r, err := mc.EdgeDecoration(u, v, rewardSlot)
			if err != nil {
				return nil, fmt.Errorf("analyzer.RewardedImage(%d,%d): %w", u, v, err)
			}
			sum += prob * r
		}
		b[u] = -sum
	}

	return b, nil
}

// ComposeVarianceReward writes, for every edge (u,v) in mc, the
// variance reward ((s(v)+r(u,v))-s(u))^2 into edge-decoration slot
// freeRewardSlot, where s is the state decoration at slot expectSlot
// and r is the edge decoration at slot rewardSlot.
// Complexity: O(E).
func ComposeVarianceReward(mc *chain.Chain, rewardSlot, expectSlot, freeRewardSlot int) error {
	for _, u := range mc.StateIDs() {
		su, err := mc.StateDecoration(u, expectSlot)
		if err != nil {
			return fmt.Errorf("analyzer.ComposeVarianceReward: %w", err)
		}
		for _, e := range mc.ForwardEdges(u) {
			sv, err := mc.StateDecoration(e.To, expectSlot)
			if err != nil {
				return fmt.Errorf("analyzer.ComposeVarianceReward: %w", err)
			}
			r, err := mc.EdgeDecoration(u, e.To, rewardSlot)
			if err != nil {
				return fmt.Errorf("analyzer.ComposeVarianceReward: %w", err)
			}
			factor := (sv + r) - su
			if err := mc.SetEdgeDecoration(u, e.To, freeRewardSlot, factor*factor); err != nil {
				return fmt.Errorf("analyzer.ComposeVarianceReward: %w", err)
			}
		}
	}

	return nil
}

// ComposeCovarianceReward writes, for every edge (u,v) in mc, the
// covariance reward ((s1(v)+r1)-s1(u)) * ((s2(v)+r2)-s2(u)) into
// edge-decoration slot freeRewardSlot.
// Complexity: O(E).
func ComposeCovarianceReward(mc *chain.Chain, r1Slot, r2Slot, e1Slot, e2Slot, freeRewardSlot int) error {
	for _, u := range mc.StateIDs() {
		s1u, err := mc.StateDecoration(u, e1Slot)
		if err != nil {
			return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
		}
		s2u, err := mc.StateDecoration(u, e2Slot)
		if err != nil {
			return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
		}
		for _, e := range mc.ForwardEdges(u) {
			s1v, err := mc.StateDecoration(e.To, e1Slot)
			if err != nil {
				return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
			}
			s2v, err := mc.StateDecoration(e.To, e2Slot)
			if err != nil {
				return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
			}
			r1, err := mc.EdgeDecoration(u, e.To, r1Slot)
			if err != nil {
				return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
			}
			r2, err := mc.EdgeDecoration(u, e.To, r2Slot)
			if err != nil {
				return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
			}
			factor1 := (s1v + r1) - s1u
			factor2 := (s2v + r2) - s2u
			if err := mc.SetEdgeDecoration(u, e.To, freeRewardSlot, factor1*factor2); err != nil {
				return fmt.Errorf("analyzer.ComposeCovarianceReward: %w", err)
			}
		}
	}

	return nil
}
