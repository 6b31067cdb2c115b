package chain_test

import (
	"errors"
	"testing"

	"github.com/nikovasil/mcreward/chain"
)

func TestNew_EmptyShape(t *testing.T) {
	c := chain.New(2, 3)
	if !c.Empty() {
		t.Fatalf("expected new chain to be empty")
	}
	if c.SizeStates() != 0 || c.SizeEdges() != 0 {
		t.Fatalf("expected zero states/edges, got %d/%d", c.SizeStates(), c.SizeEdges())
	}
	if c.NEdgeDecorations() != 2 || c.NNodeDecorations() != 3 {
		t.Fatalf("unexpected decoration shape")
	}
}

func TestInitState_Idempotent(t *testing.T) {
	c := chain.New(1, 1)
	c.InitState(5)
	c.InitState(5)
	if c.SizeStates() != 1 {
		t.Fatalf("expected 1 state after repeated InitState, got %d", c.SizeStates())
	}
}

func TestAddEdge_IndexConsistency(t *testing.T) {
	c := chain.New(1, 1)
	if err := c.AddEdge(0, 1, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SizeStates() != 2 || c.SizeEdges() != 1 {
		t.Fatalf("expected 2 states, 1 edge; got %d/%d", c.SizeStates(), c.SizeEdges())
	}
	p, err := c.EdgeProbability(0, 1)
	if err != nil || p != 0.5 {
		t.Fatalf("EdgeProbability: got %v, %v", p, err)
	}
}

func TestAddEdge_Duplicate(t *testing.T) {
	c := chain.New(1, 1)
	if err := c.AddEdge(0, 1, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.AddEdge(0, 1, 0.7)
	if !errors.Is(err, chain.ErrEdgeExists) {
		t.Fatalf("expected ErrEdgeExists, got %v", err)
	}
	// chain left untouched: probability is still the original.
	p, _ := c.EdgeProbability(0, 1)
	if p != 0.5 {
		t.Fatalf("expected untouched probability 0.5, got %v", p)
	}
}

func TestEdgeDecoration_OutOfRange(t *testing.T) {
	c := chain.New(2, 1)
	if err := c.AddEdge(0, 1, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetEdgeDecoration(0, 1, 0, 5.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := c.EdgeDecoration(0, 1, 0)
	if err != nil || v != 5.0 {
		t.Fatalf("EdgeDecoration: got %v, %v", v, err)
	}
	_, err = c.EdgeDecoration(0, 1, 2)
	if !errors.Is(err, chain.ErrDecorationOutOfRange) {
		t.Fatalf("expected ErrDecorationOutOfRange, got %v", err)
	}
}

func TestEdgeDecoration_NoSuchEdge(t *testing.T) {
	c := chain.New(1, 1)
	_, err := c.EdgeDecoration(0, 1, 0)
	if !errors.Is(err, chain.ErrNoSuchEdge) {
		t.Fatalf("expected ErrNoSuchEdge, got %v", err)
	}
}

func TestSetStateDecorationVector(t *testing.T) {
	c := chain.New(1, 1)
	if err := c.AddEdge(0, 1, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.SetStateDecorationVector(map[int]float64{0: 3, 1: 7}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v0, _ := c.StateDecoration(0, 0)
	v1, _ := c.StateDecoration(1, 0)
	if v0 != 3 || v1 != 7 {
		t.Fatalf("unexpected state decorations: %v, %v", v0, v1)
	}
}

func TestSetStateDecorationVector_OutOfRange(t *testing.T) {
	c := chain.New(1, 1)
	c.InitState(0)
	err := c.SetStateDecorationVector(map[int]float64{0: 1}, 1)
	if !errors.Is(err, chain.ErrDecorationOutOfRange) {
		t.Fatalf("expected ErrDecorationOutOfRange, got %v", err)
	}
}

func TestForwardEdges_ListsOutgoingEdges(t *testing.T) {
	c := chain.New(1, 1)
	if err := c.AddEdge(0, 1, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddEdge(0, 2, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views := c.ForwardEdges(0)
	if len(views) != 2 {
		t.Fatalf("expected 2 outgoing edges, got %d", len(views))
	}
	var sum float64
	for _, v := range views {
		sum += v.Probability
	}
	if sum != 1.0 {
		t.Fatalf("expected probabilities to sum to 1, got %v", sum)
	}
}
