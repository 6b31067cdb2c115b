// Package herman builds the Markov chain of Herman's self-stabilising
// token-ring algorithm for an odd ring size N: every bit-string of
// length N is a state (2^N states total), a bit position is
// deterministic in a transition iff it differs from its ring-successor
// (copying the successor's value), and every remaining position is
// non-deterministic and forks the transition uniformly over both
// choices. Every transition carries a unit reward at edge-decoration
// slot 0; the stable (legitimate) configurations form the target set.
package herman

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/mcio/targetset"
)

// ErrInvalidArgument is returned for any precondition violation: a
// non-empty chain, an even size, a size too large to enumerate 2^N
// states in an int, or a chain with no edge-decoration slots to hold
// the unit cost.
var ErrInvalidArgument = errors.New("herman: invalid argument")

// Log records the wall-clock duration, in milliseconds, of precondition
// checking and state/transition generation.
type Log struct {
	Size          int     `json:"size"`
	SizeNodes     int     `json:"size_nodes"`
	SizeEdges     int     `json:"size_edges"`
	TimeRunChecks float64 `json:"time_run_checks_ms"`
	TimeGenerate  float64 `json:"time_run_generator_ms"`
	TimeTotal     float64 `json:"total_time_ms"`
}

// Generate populates the empty chain mc with the full Herman-N ring
// chain and fills target with the stable (legitimate) states. mc must
// be empty and carry at least one edge-decoration slot (index 0 holds
// the unit transition cost); size must be odd and small enough that
// 1<<size fits in an int.
func Generate(mc *chain.Chain, size int, target *targetset.Set) (*Log, error) {
	log := &Log{Size: size}
	t0 := time.Now()

	t := time.Now()
	if !mc.Empty() {
		return nil, fmt.Errorf("herman.Generate: chain must be empty: %w", ErrInvalidArgument)
	}
	if size%2 == 0 {
		return nil, fmt.Errorf("herman.Generate: size must be odd: %w", ErrInvalidArgument)
	}
	if size <= 0 || size >= bits.UintSize-1 {
		return nil, fmt.Errorf("herman.Generate: size %d does not fit: %w", size, ErrInvalidArgument)
	}
	if mc.NEdgeDecorations() == 0 {
		return nil, fmt.Errorf("herman.Generate: reward slot 0 needed for unit costs: %w", ErrInvalidArgument)
	}
	log.TimeRunChecks = elapsedMS(t)

	t = time.Now()
	nStates := 1 << uint(size)

	for state := 0; state < nStates; state++ {
		mc.InitState(state)
	}

	enumerateStableStates(size, target)

	for state := 0; state < nStates; state++ {
		var nonDet []int
		nextState := 0
		for pos := 0; pos < size; pos++ {
			current := bitAt(state, pos)
			next := bitAt(state, (pos+1)%size)
			if current != next {
				if next {
					nextState |= 1 << uint(pos)
				}
			} else {
				nonDet = append(nonDet, pos)
			}
		}

		prob := 1.0 / float64(uint(1)<<uint(len(nonDet)))

		choices := 1 << uint(len(nonDet))
		for bitsForNonDet := 0; bitsForNonDet < choices; bitsForNonDet++ {
			next := nextState
			for i, pos := range nonDet {
				if bitsForNonDet&(1<<uint(i)) != 0 {
					next |= 1 << uint(pos)
				}
			}
			if err := mc.AddEdge(state, next, prob); err != nil {
				return nil, fmt.Errorf("herman.Generate: %w", err)
			}
			if err := mc.SetEdgeDecoration(state, next, 0, 1.0); err != nil {
				return nil, fmt.Errorf("herman.Generate: %w", err)
			}
		}
	}
	log.TimeGenerate = elapsedMS(t)

	log.SizeNodes = mc.SizeStates()
	log.SizeEdges = mc.SizeEdges()
	log.TimeTotal = elapsedMS(t0)

	return log, nil
}

// bitAt reports whether bit pos of v is set.
func bitAt(v, pos int) bool {
	return v&(1<<uint(pos)) != 0
}

// enumerateStableStates fills target with the two legitimate (stable)
// Herman-N configurations: the most-significant bit (position size-1)
// fixed to each of {0,1}, with every other position alternating away
// from it, bit_i = msb XOR ((size-1-i) mod 2). Odd size makes this
// alternation consistent all the way around the ring, which is exactly
// why Herman's algorithm requires N odd.
func enumerateStableStates(size int, target *targetset.Set) {
	for _, msb := range []bool{false, true} {
		var node int
		for i := 0; i < size; i++ {
			bit := msb
			if (size-1-i)%2 != 0 {
				bit = !bit
			}
			if bit {
				node |= 1 << uint(i)
			}
		}
		target.Add(node)
	}
}

func elapsedMS(since time.Time) float64 {
	return float64(time.Since(since)) / float64(time.Millisecond)
}
