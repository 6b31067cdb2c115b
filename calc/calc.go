// Package calc sequences the analyzer and solver packages into the
// three analysis passes over a chain.Chain — expectation, variance,
// and covariance of accumulated edge rewards until absorption into a
// target set — and records a per-phase timing log for each pass.
package calc

import (
	"fmt"
	"time"

	"github.com/nikovasil/mcreward/analyzer"
	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/solver"
)

// Log records the wall-clock duration, in milliseconds, of each named
// phase of one analysis pass, plus the total and the portion spent in
// the linear solve. Zero-valued fields are phases that pass did not
// run (e.g. variance-only fields stay zero on an Expectation call).
type Log struct {
	RewardSlot       int     `json:"reward_index"`
	ExpectSlot       int     `json:"expect_state_decoration_index,omitempty"`
	VarianceSlot     int     `json:"variance_state_decoration_index,omitempty"`
	CovarianceSlot   int     `json:"covariance_state_decoration_index,omitempty"`
	FreeRewardSlot   int     `json:"interim_result_edge_decoration_index,omitempty"`
	TimeCreateTAPM   float64 `json:"create_target_adjusted_probability_matrix_ms"`
	TimeCopyTAPM     float64 `json:"copy_target_adjusted_probability_matrix_ms"`
	TimeSubtractUnit float64 `json:"subtract_unity_matrix_ms"`
	TimeImageExpect  float64 `json:"calc_image_vector_expect_ms"`
	TimeSolveExpect  float64 `json:"solve_linear_system_expect_ms"`
	TimeWriteExpect  float64 `json:"write_decorations_expect_ms"`
	TimeInterimRew   float64 `json:"calc_interim_reward_ms,omitempty"`
	TimeImageVar     float64 `json:"calc_image_vector_variance_ms,omitempty"`
	TimeSolveVar     float64 `json:"solve_linear_system_variance_ms,omitempty"`
	TimeWriteVar     float64 `json:"write_decorations_variance_ms,omitempty"`
	TimeTotal        float64 `json:"total_time_ms"`
	TimeLinearSolve  float64 `json:"linear_system_solve_time_ms"`
}

func elapsedMS(since time.Time) float64 {
	return float64(time.Since(since)) / float64(time.Millisecond)
}

// Expectation computes, for every state, the expected accumulated
// reward (at edge-decoration slot rewardSlot) along paths until
// absorption into target, writing the result into state-decoration
// slot expectSlot.
func Expectation(mc *chain.Chain, rewardSlot int, target analyzer.Set, expectSlot int, opts ...solver.Option) (*Log, error) {
	log := &Log{RewardSlot: rewardSlot, ExpectSlot: expectSlot}
	t0 := time.Now()

	t := time.Now()
	p, err := analyzer.BuildTAPM(mc, target)
	if err != nil {
		return nil, fmt.Errorf("calc.Expectation: %w", err)
	}
	log.TimeCreateTAPM = elapsedMS(t)

	t = time.Now()
	shifted := p.Clone()
	log.TimeCopyTAPM = elapsedMS(t)

	t = time.Now()
	if err := shifted.SubtractIdentity(); err != nil {
		return nil, fmt.Errorf("calc.Expectation: %w", err)
	}
	log.TimeSubtractUnit = elapsedMS(t)

	t = time.Now()
	b, err := analyzer.RewardedImage(p, mc, rewardSlot)
	if err != nil {
		return nil, fmt.Errorf("calc.Expectation: %w", err)
	}
	log.TimeImageExpect = elapsedMS(t)

	t = time.Now()
	x, err := solver.Solve(shifted, b, opts...)
	if err != nil {
		return nil, fmt.Errorf("calc.Expectation: %w", err)
	}
	log.TimeSolveExpect = elapsedMS(t)
	log.TimeLinearSolve = log.TimeSolveExpect

	t = time.Now()
	if err := writeStateDecorations(mc, x, expectSlot); err != nil {
		return nil, fmt.Errorf("calc.Expectation: %w", err)
	}
	log.TimeWriteExpect = elapsedMS(t)

	log.TimeTotal = elapsedMS(t0)

	return log, nil
}

// Variance computes, for every state, the variance of accumulated
// reward (slot rewardSlot) until absorption into target. It first
// computes the expectation pass into expectSlot, composes the
// variance reward into edge-decoration slot freeRewardSlot, and solves
// a second linear system writing the variance into varianceSlot.
// The slot arguments are not checked for distinctness: the pass
// overwrites expectSlot, freeRewardSlot and varianceSlot in that
// order, whatever other role a slot also has.
func Variance(mc *chain.Chain, rewardSlot int, target analyzer.Set, varianceSlot, expectSlot, freeRewardSlot int, opts ...solver.Option) (*Log, error) {
	log := &Log{
		RewardSlot:     rewardSlot,
		ExpectSlot:     expectSlot,
		VarianceSlot:   varianceSlot,
		FreeRewardSlot: freeRewardSlot,
	}
	t0 := time.Now()

	t := time.Now()
	p, err := analyzer.BuildTAPM(mc, target)
	if err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeCreateTAPM = elapsedMS(t)

	t = time.Now()
	shifted := p.Clone()
	log.TimeCopyTAPM = elapsedMS(t)

	t = time.Now()
	if err := shifted.SubtractIdentity(); err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeSubtractUnit = elapsedMS(t)

	t = time.Now()
	b, err := analyzer.RewardedImage(p, mc, rewardSlot)
	if err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeImageExpect = elapsedMS(t)

	t = time.Now()
	x, err := solver.Solve(shifted, b, opts...)
	if err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeSolveExpect = elapsedMS(t)

	t = time.Now()
	if err := writeStateDecorations(mc, x, expectSlot); err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeWriteExpect = elapsedMS(t)

	t = time.Now()
	if err := analyzer.ComposeVarianceReward(mc, rewardSlot, expectSlot, freeRewardSlot); err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeInterimRew = elapsedMS(t)

	t = time.Now()
	b2, err := analyzer.RewardedImage(p, mc, freeRewardSlot)
	if err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeImageVar = elapsedMS(t)

	t = time.Now()
	x2, err := solver.Solve(shifted, b2, opts...)
	if err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeSolveVar = elapsedMS(t)
	log.TimeLinearSolve = log.TimeSolveExpect + log.TimeSolveVar

	t = time.Now()
	if err := writeStateDecorations(mc, x2, varianceSlot); err != nil {
		return nil, fmt.Errorf("calc.Variance: %w", err)
	}
	log.TimeWriteVar = elapsedMS(t)

	log.TimeTotal = elapsedMS(t0)

	return log, nil
}

// Covariance computes, for every state, the covariance of two
// accumulated rewards (slots r1Slot and r2Slot) until absorption into
// target. It runs an expectation pass for each reward (into e1Slot and
// e2Slot), composes the covariance reward into freeRewardSlot, and
// solves a final linear system writing the covariance into
// covarianceSlot. The slot arguments are not checked for
// distinctness: the pass overwrites e1Slot, e2Slot, freeRewardSlot and
// covarianceSlot in that order, whatever other role a slot also has.
// Both expectation passes add into the Log's expectation timing
// fields; the composed-reward image, final solve and final write are
// recorded in TimeImageVar, TimeSolveVar and TimeWriteVar.
func Covariance(mc *chain.Chain, r1Slot, r2Slot int, target analyzer.Set, covarianceSlot, e1Slot, e2Slot, freeRewardSlot int, opts ...solver.Option) (*Log, error) {
	log := &Log{CovarianceSlot: covarianceSlot, FreeRewardSlot: freeRewardSlot}
	t0 := time.Now()

	t := time.Now()
	p, err := analyzer.BuildTAPM(mc, target)
	if err != nil {
		return nil, fmt.Errorf("calc.Covariance: %w", err)
	}
	log.TimeCreateTAPM = elapsedMS(t)

	t = time.Now()
	shifted := p.Clone()
	log.TimeCopyTAPM = elapsedMS(t)

	t = time.Now()
	if err := shifted.SubtractIdentity(); err != nil {
		return nil, fmt.Errorf("calc.Covariance: %w", err)
	}
	log.TimeSubtractUnit = elapsedMS(t)

	for _, pair := range []struct {
		rewardSlot int
		expectSlot int
	}{{r1Slot, e1Slot}, {r2Slot, e2Slot}} {
		t = time.Now()
		b, err := analyzer.RewardedImage(p, mc, pair.rewardSlot)
		if err != nil {
			return nil, fmt.Errorf("calc.Covariance: %w", err)
		}
		log.TimeImageExpect += elapsedMS(t)

		t = time.Now()
		x, err := solver.Solve(shifted, b, opts...)
		if err != nil {
			return nil, fmt.Errorf("calc.Covariance: %w", err)
		}
		log.TimeSolveExpect += elapsedMS(t)

		t = time.Now()
		if err := writeStateDecorations(mc, x, pair.expectSlot); err != nil {
			return nil, fmt.Errorf("calc.Covariance: %w", err)
		}
		log.TimeWriteExpect += elapsedMS(t)
	}

	t = time.Now()
	if err := analyzer.ComposeCovarianceReward(mc, r1Slot, r2Slot, e1Slot, e2Slot, freeRewardSlot); err != nil {
		return nil, fmt.Errorf("calc.Covariance: %w", err)
	}
	log.TimeInterimRew = elapsedMS(t)

	t = time.Now()
	b, err := analyzer.RewardedImage(p, mc, freeRewardSlot)
	if err != nil {
		return nil, fmt.Errorf("calc.Covariance: %w", err)
	}
	log.TimeImageVar = elapsedMS(t)

	t = time.Now()
	x, err := solver.Solve(shifted, b, opts...)
	if err != nil {
		return nil, fmt.Errorf("calc.Covariance: %w", err)
	}
	log.TimeSolveVar = elapsedMS(t)
	log.TimeLinearSolve = log.TimeSolveExpect + log.TimeSolveVar

	t = time.Now()
	if err := writeStateDecorations(mc, x, covarianceSlot); err != nil {
		return nil, fmt.Errorf("calc.Covariance: %w", err)
	}
	log.TimeWriteVar = elapsedMS(t)

	log.TimeTotal = elapsedMS(t0)

	return log, nil
}

// writeStateDecorations writes x[u] into mc's state-decoration slot
// for every state id u the chain knows about.
func writeStateDecorations(mc *chain.Chain, x []float64, slot int) error {
	values := make(map[int]float64, len(x))
	for _, id := range mc.StateIDs() {
		if id >= 0 && id < len(x) {
			values[id] = x[id]
		}
	}

	return mc.SetStateDecorationVector(values, slot)
}
