// Package prism reads PRISM-format transition-matrix, transition-reward,
// and label files into a chain.Chain and targetset.Set, following the
// PRISM explicit-model file conventions: a header line giving counts,
// followed by one value line per edge.
package prism

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/mcio/lex"
	"github.com/nikovasil/mcreward/mcio/targetset"
)

// headerPattern matches a scanned (newline-stripped) PRISM header line:
// "<states> <transitions>".
var headerPattern = regexp.MustCompile(`^(` + lex.NonnegIntPattern + `)[ \t]+(` + lex.NonnegIntPattern + `)[ \t]*$`)

// ErrMalformedFile is returned when a line does not match the expected
// PRISM grammar.
var ErrMalformedFile = errors.New("prism: malformed file")

// ErrDuplicateEdge is returned by ReadTra when a transitions file
// defines the same (from, to) pair twice.
var ErrDuplicateEdge = errors.New("prism: duplicate transition")

// ErrUnknownEdge is returned by ReadTrew when a rewards file assigns a
// reward to an edge the chain does not contain.
var ErrUnknownEdge = errors.New("prism: reward for non-existent edge")

// ReadTra populates mc from a PRISM .tra transitions file: a header
// line "<states> <transitions>" followed by one "<from> <to> <prob>"
// line per edge. A header/body count mismatch is tolerated (the
// resulting chain reflects only the lines actually read); a duplicate
// edge definition fails with ErrDuplicateEdge. mc must be empty.
func ReadTra(mc *chain.Chain, r io.Reader) error {
	if !mc.Empty() {
		return errors.New("prism.ReadTra: chain must be empty")
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	if !sc.Scan() {
		return fmt.Errorf("prism.ReadTra: empty input: %w", ErrMalformedFile)
	}
	header := strings.TrimSpace(sc.Text())
	hm := headerPattern.FindStringSubmatch(header)
	if hm == nil {
		return fmt.Errorf("prism.ReadTra: header %q: %w", header, ErrMalformedFile)
	}
	declaredStates, _ := strconv.Atoi(hm[1])

	count := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := lex.PrismValueLine.FindStringSubmatch(line)
		if m == nil {
			return fmt.Errorf("prism.ReadTra: line %q: %w", line, ErrMalformedFile)
		}
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		prob, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return fmt.Errorf("prism.ReadTra: probability %q: %w", m[3], err)
		}
		if err := mc.AddEdge(from, to, prob); err != nil {
			if errors.Is(err, chain.ErrEdgeExists) {
				return fmt.Errorf("prism.ReadTra: (%d,%d): %w", from, to, ErrDuplicateEdge)
			}

			return fmt.Errorf("prism.ReadTra: %w", err)
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("prism.ReadTra: %w", err)
	}
	if mc.SizeStates() != declaredStates {
		log.Warn().
			Int("declared_states", declaredStates).
			Int("actual_states", mc.SizeStates()).
			Int("transitions_read", count).
			Msg("prism.ReadTra: header/body state count mismatch")
	}

	return nil
}

// ReadTrew populates edge-decoration slot rewardSlot of mc from a
// PRISM .trew transition-rewards file: a header line followed by one
// "<from> <to> <reward>" line per rewarded edge. Every referenced edge
// must already exist in mc (built via ReadTra beforehand); a reward for
// a non-existent edge fails with ErrUnknownEdge.
func ReadTrew(mc *chain.Chain, r io.Reader, rewardSlot int) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	if !sc.Scan() {
		return fmt.Errorf("prism.ReadTrew: empty input: %w", ErrMalformedFile)
	}
	header := strings.TrimSpace(sc.Text())
	if headerPattern.FindStringSubmatch(header) == nil {
		return fmt.Errorf("prism.ReadTrew: header %q: %w", header, ErrMalformedFile)
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := lex.PrismValueLine.FindStringSubmatch(line)
		if m == nil {
			return fmt.Errorf("prism.ReadTrew: line %q: %w", line, ErrMalformedFile)
		}
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		reward, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return fmt.Errorf("prism.ReadTrew: reward %q: %w", m[3], err)
		}
		if err := mc.SetEdgeDecoration(from, to, rewardSlot, reward); err != nil {
			if errors.Is(err, chain.ErrNoSuchEdge) {
				return fmt.Errorf("prism.ReadTrew: (%d,%d): %w", from, to, ErrUnknownEdge)
			}

			return fmt.Errorf("prism.ReadTrew: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("prism.ReadTrew: %w", err)
	}

	return nil
}

// ReadLabels builds a targetset.Set of every state id whose PRISM label
// file entry lists labelID among its labels. It delegates to
// targetset.FromPrismLabels, which owns the label-line grammar.
func ReadLabels(r io.Reader, labelID int) (*targetset.Set, error) {
	s, err := targetset.FromPrismLabels(r, labelID)
	if err != nil {
		return nil, fmt.Errorf("prism.ReadLabels: %w", err)
	}

	return s, nil
}
