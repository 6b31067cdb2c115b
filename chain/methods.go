// File: methods.go
// Role: state/edge lifecycle and decoration accessors.
// Determinism:
//   - InitState is idempotent.
//   - All mutators validate structurally before mutating, so a failed
//     call leaves the chain untouched.
package chain

import "fmt"

// InitState idempotently inserts a zero-decorated state. Complexity: O(1).
func (c *Chain) InitState(id int) {
	if _, ok := c.states[id]; ok {
		return
	}
	c.states[id] = &nodeRecord{decorations: make([]float64, c.nNodeDecorations)}
}

// AddEdge creates a new edge u->v with the given transition probability.
// Fails with ErrEdgeExists if forward[u] already contains v. On success,
// both endpoints are registered via InitState and the edge's reward
// vector is zero-initialized.
//
// Steps:
//  1. Reject if the edge already exists (validate before mutate).
//  2. Ensure both endpoint states exist.
//  3. Allocate the edge and install it into both forward and inverse
//     indexes so they always refer to the same *edge.
//
// Complexity: O(1) amortized.
func (c *Chain) AddEdge(u, v int, probability float64) error {
	if out, ok := c.forward[u]; ok {
		if _, exists := out[v]; exists {
			return fmt.Errorf("chain: AddEdge(%d,%d): %w", u, v, ErrEdgeExists)
		}
	}

	c.InitState(u)
	c.InitState(v)

	e := &edge{probability: probability, decorations: make([]float64, c.nEdgeDecorations)}

	if c.forward[u] == nil {
		c.forward[u] = make(map[int]*edge)
	}
	if c.inverse[v] == nil {
		c.inverse[v] = make(map[int]*edge)
	}
	c.forward[u][v] = e
	c.inverse[v][u] = e

	return nil
}

// lookupEdge returns the edge for (u,v) or ErrNoSuchEdge.
func (c *Chain) lookupEdge(u, v int) (*edge, error) {
	out, ok := c.forward[u]
	if !ok {
		return nil, fmt.Errorf("chain: (%d,%d): %w", u, v, ErrNoSuchEdge)
	}
	e, ok := out[v]
	if !ok {
		return nil, fmt.Errorf("chain: (%d,%d): %w", u, v, ErrNoSuchEdge)
	}

	return e, nil
}

// EdgeProbability returns the transition probability of edge (u,v).
// Complexity: O(1).
func (c *Chain) EdgeProbability(u, v int) (float64, error) {
	e, err := c.lookupEdge(u, v)
	if err != nil {
		return 0, err
	}

	return e.probability, nil
}

// EdgeDecoration returns reward slot k of edge (u,v).
// Fails with ErrNoSuchEdge if the edge is missing, or
// ErrDecorationOutOfRange if k is out of bounds.
// Complexity: O(1).
func (c *Chain) EdgeDecoration(u, v, k int) (float64, error) {
	e, err := c.lookupEdge(u, v)
	if err != nil {
		return 0, err
	}
	if k < 0 || k >= len(e.decorations) {
		return 0, fmt.Errorf("chain: EdgeDecoration(%d,%d,%d): %w", u, v, k, ErrDecorationOutOfRange)
	}

	return e.decorations[k], nil
}

// SetEdgeDecoration writes reward slot k of edge (u,v).
// Fails with ErrNoSuchEdge if the edge is missing, or
// ErrDecorationOutOfRange if k is out of bounds; in either case the
// chain is left untouched.
// Complexity: O(1).
func (c *Chain) SetEdgeDecoration(u, v, k int, x float64) error {
	e, err := c.lookupEdge(u, v)
	if err != nil {
		return err
	}
	if k < 0 || k >= len(e.decorations) {
		return fmt.Errorf("chain: SetEdgeDecoration(%d,%d,%d): %w", u, v, k, ErrDecorationOutOfRange)
	}
	e.decorations[k] = x

	return nil
}

// StateDecoration returns decoration slot k of state id.
// Complexity: O(1).
func (c *Chain) StateDecoration(id, k int) (float64, error) {
	s, ok := c.states[id]
	if !ok {
		return 0, fmt.Errorf("chain: StateDecoration(%d,%d): %w", id, k, ErrNoSuchEdge)
	}
	if k < 0 || k >= len(s.decorations) {
		return 0, fmt.Errorf("chain: StateDecoration(%d,%d): %w", id, k, ErrDecorationOutOfRange)
	}

	return s.decorations[k], nil
}

// SetStateDecorationVector writes valuesByState[id] into decoration
// slot index for every state currently in the chain that has an entry
// in valuesByState. States not present in valuesByState are left
// unchanged. Fails with ErrDecorationOutOfRange if index is out of
// bounds, without writing anything.
// Complexity: O(len(valuesByState)).
func (c *Chain) SetStateDecorationVector(valuesByState map[int]float64, index int) error {
	if index < 0 || index >= c.nNodeDecorations {
		return fmt.Errorf("chain: SetStateDecorationVector(index=%d): %w", index, ErrDecorationOutOfRange)
	}
	for id, val := range valuesByState {
		s, ok := c.states[id]
		if !ok {
			continue
		}
		s.decorations[index] = val
	}

	return nil
}

// EdgeView is a read-only view of one outgoing edge, returned by
// ForwardEdges for building matrices without exposing the internal
// *edge pointer type.
type EdgeView struct {
	To          int
	Probability float64
	Decorations []float64
}

// ForwardEdges returns the outgoing edges of state u as a slice of
// read-only views, suitable for building matrices. The returned slice
// is a snapshot; mutating the chain afterward does not affect it.
// Complexity: O(out-degree(u)).
func (c *Chain) ForwardEdges(u int) []EdgeView {
	out := c.forward[u]
	if len(out) == 0 {
		return nil
	}
	views := make([]EdgeView, 0, len(out))
	for v, e := range out {
		views = append(views, EdgeView{To: v, Probability: e.probability, Decorations: append([]float64(nil), e.decorations...)})
	}

	return views
}

// StateIDs returns all state identifiers currently in the chain, in no
// particular order.
func (c *Chain) StateIDs() []int {
	ids := make([]int, 0, len(c.states))
	for id := range c.states {
		ids = append(ids, id)
	}

	return ids
}
