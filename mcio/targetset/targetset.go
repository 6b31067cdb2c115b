// Package targetset holds the finite set of absorbing target-state
// identifiers used by the analytical pipeline. A Set is independent of
// any particular chain: identifiers it contains that do not appear in
// a given chain are silently inert there (they can never be reached).
package targetset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nikovasil/mcreward/mcio/lex"
)

// Set is a finite set of state identifiers.
type Set struct {
	ids map[int]struct{}
}

// New returns an empty Set.
func New() *Set {
	return &Set{ids: make(map[int]struct{})}
}

// Add inserts id into the set. Complexity: O(1).
func (s *Set) Add(id int) {
	s.ids[id] = struct{}{}
}

// Contains reports whether id is a member. Complexity: O(1).
func (s *Set) Contains(id int) bool {
	_, ok := s.ids[id]

	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.ids)
}

// Members returns all member IDs in no particular order.
func (s *Set) Members() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}

	return out
}

// FromIntStream builds a Set from whitespace-separated, arbitrary
// (possibly negative) integers.
func FromIntStream(r io.Reader) (*Set, error) {
	s := New()
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		tok := sc.Text()
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("targetset.FromIntStream: %q: %w", tok, err)
		}
		s.Add(v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("targetset.FromIntStream: %w", err)
	}

	return s, nil
}

// FromPrismLabels builds a Set from a PRISM label file: lines of the
// form "id: lbl1 lbl2 ...". A state id is included iff one of its
// label ids equals labelID.
func FromPrismLabels(r io.Reader, labelID int) (*Set, error) {
	s := New()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := lex.PrismLabelLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("targetset.FromPrismLabels: malformed line %q", line)
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("targetset.FromPrismLabels: %w", err)
		}
		for _, tok := range strings.Fields(m[2]) {
			lbl, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("targetset.FromPrismLabels: label %q: %w", tok, err)
			}
			if lbl == labelID {
				s.Add(id)
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("targetset.FromPrismLabels: %w", err)
	}

	return s, nil
}
