// Package chain is the data model at the center of this module: states
// identified by integers (the analyzer package requires them to form
// the dense range [0, SizeStates())), directed edges
// carrying a transition probability and a fixed-length reward vector,
// and per-state fixed-length result vectors written by the analytical
// pipeline (see the analyzer and calc packages).
//
//   - Index consistency: forward[u][v] and inverse[v][u] always name
//     the same edge; no method updates one without the other.
//   - Edge uniqueness: at most one edge per ordered pair (u,v).
//   - State cover: every u or v that appears in forward/inverse has a
//     states entry (InitState is called for both endpoints of every
//     AddEdge).
//   - No probability validity requirement: AddEdge does not check
//     that a state's outgoing probabilities sum to 1; degenerate
//     input is accepted and left to the caller.
package chain
