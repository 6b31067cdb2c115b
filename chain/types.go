// Package chain defines the Markov chain data model: a state/edge graph
// carrying per-edge transition probabilities and per-edge reward
// decoration vectors, plus per-state result decoration vectors.
//
// A Chain is single-threaded by contract and non-copyable: callers must
// not mutate a Chain while an analyzer read is in progress. Unlike a
// general-purpose concurrent graph, no internal locking is performed.
//
// Errors:
//
//	ErrEdgeExists           - AddEdge on a pair that already has an edge.
//	ErrNoSuchEdge           - edge accessor referenced a missing edge.
//	ErrDecorationOutOfRange - decoration/reward slot index out of configured range.
package chain

import "errors"

// Sentinel errors for chain operations.
var (
	// ErrEdgeExists indicates AddEdge was called for an (u,v) pair that
	// already has a forward edge.
	ErrEdgeExists = errors.New("chain: edge already exists")

	// ErrNoSuchEdge indicates an edge accessor referenced an (u,v) pair
	// with no edge.
	ErrNoSuchEdge = errors.New("chain: no such edge")

	// ErrDecorationOutOfRange indicates a decoration or reward slot index
	// was not less than the chain's configured count.
	ErrDecorationOutOfRange = errors.New("chain: decoration index out of range")
)

// edge holds one directed transition's probability and reward vector.
type edge struct {
	probability float64
	decorations []float64
}

// nodeRecord holds one state's result decoration vector.
type nodeRecord struct {
	decorations []float64
}

// Chain is the core in-memory Markov chain data structure.
//
// It holds states indexed by integer identifier, a forward adjacency
// index (u -> v -> edge) and a mirrored inverse index (v -> u -> edge),
// both of which are updated together by every mutator so that
// forward[u][v] and inverse[v][u] always refer to the same edge.
//
// nEdgeDecorations and nNodeDecorations are fixed at construction;
// growing them is out of scope. A Chain is populated exactly once,
// either by a file reader (see the mcio subpackages) or by herman.Generate,
// both of which require Empty() to hold at entry.
type Chain struct {
	nEdgeDecorations int
	nNodeDecorations int

	states  map[int]*nodeRecord
	forward map[int]map[int]*edge
	inverse map[int]map[int]*edge
}

// New creates an empty Chain with the given, fixed decoration shapes.
// Complexity: O(1).
func New(nEdgeDecorations, nNodeDecorations int) *Chain {
	return &Chain{
		nEdgeDecorations: nEdgeDecorations,
		nNodeDecorations: nNodeDecorations,
		states:           make(map[int]*nodeRecord),
		forward:          make(map[int]map[int]*edge),
		inverse:          make(map[int]map[int]*edge),
	}
}

// NEdgeDecorations returns the fixed number of reward slots per edge.
func (c *Chain) NEdgeDecorations() int { return c.nEdgeDecorations }

// NNodeDecorations returns the fixed number of decoration slots per state.
func (c *Chain) NNodeDecorations() int { return c.nNodeDecorations }

// Empty reports whether the chain has no states and no edges.
// Complexity: O(1).
func (c *Chain) Empty() bool {
	return len(c.states) == 0 && len(c.forward) == 0
}

// SizeStates returns the number of states currently in the chain.
// Complexity: O(1).
func (c *Chain) SizeStates() int {
	return len(c.states)
}

// SizeEdges returns the number of edges currently in the chain.
// Complexity: O(V) over states with outgoing edges.
func (c *Chain) SizeEdges() int {
	var n int
	for _, out := range c.forward {
		n += len(out)
	}

	return n
}
