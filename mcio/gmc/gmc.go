// Package gmc reads the generic "general markov chain" table format: a
// comma-separated text table with a `$`-prefixed column header naming
// the required `$from`/`$to`/`$prob` columns plus any number of
// additional columns, each named by the integer edge-decoration slot
// its values route into.
package gmc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/mcio/lex"
)

// ErrMalformedFile is returned for a missing header, an unparsable
// data line, or a data line whose field count does not match the
// header.
var ErrMalformedFile = errors.New("gmc: malformed file")

// ErrMissingColumn is returned when the header lacks $from, $to, or
// $prob.
var ErrMissingColumn = errors.New("gmc: missing required column")

const (
	colFrom = "from"
	colTo   = "to"
	colProb = "prob"
)

// Read populates the empty chain mc from a GMC table read from r:
// `#`-prefixed and blank lines are ignored throughout; the first
// non-ignored line is the semantics header; every subsequent
// non-ignored line is a comma-separated data row with one value per
// header column.
func Read(mc *chain.Chain, r io.Reader) error {
	if !mc.Empty() {
		return errors.New("gmc.Read: chain must be empty")
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	header, err := nextHeaderLine(sc)
	if err != nil {
		return fmt.Errorf("gmc.Read: %w", err)
	}

	columns := strings.Split(header, ",")
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}

	posFrom, posTo, posProb := -1, -1, -1
	rewardSlotByCol := make(map[int]int, len(columns))
	for i, col := range columns {
		m := lex.GMCColumn.FindStringSubmatch(col)
		if m == nil {
			return fmt.Errorf("gmc.Read: header column %q: %w", col, ErrMalformedFile)
		}
		name := m[1]
		switch name {
		case colFrom:
			posFrom = i
		case colTo:
			posTo = i
		case colProb:
			posProb = i
		default:
			slot, err := strconv.Atoi(name)
			if err != nil {
				return fmt.Errorf("gmc.Read: column %q is neither a required column nor an integer reward slot: %w", col, ErrMalformedFile)
			}
			rewardSlotByCol[i] = slot
		}
	}
	if posFrom < 0 || posTo < 0 || posProb < 0 {
		return fmt.Errorf("gmc.Read: %w", ErrMissingColumn)
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != len(columns) {
			return fmt.Errorf("gmc.Read: data line %q: expected %d fields, got %d: %w", line, len(columns), len(fields), ErrMalformedFile)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		from, err := strconv.Atoi(fields[posFrom])
		if err != nil {
			return fmt.Errorf("gmc.Read: $from %q: %w: %w", fields[posFrom], ErrMalformedFile, err)
		}
		to, err := strconv.Atoi(fields[posTo])
		if err != nil {
			return fmt.Errorf("gmc.Read: $to %q: %w: %w", fields[posTo], ErrMalformedFile, err)
		}
		prob, err := strconv.ParseFloat(fields[posProb], 64)
		if err != nil {
			return fmt.Errorf("gmc.Read: $prob %q: %w: %w", fields[posProb], ErrMalformedFile, err)
		}

		if err := mc.AddEdge(from, to, prob); err != nil {
			return fmt.Errorf("gmc.Read: (%d,%d): %w", from, to, err)
		}
		for col, slot := range rewardSlotByCol {
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return fmt.Errorf("gmc.Read: reward column %d %q: %w: %w", slot, fields[col], ErrMalformedFile, err)
			}
			if err := mc.SetEdgeDecoration(from, to, slot, v); err != nil {
				return fmt.Errorf("gmc.Read: reward column %d: %w", slot, err)
			}
		}
	}

	return sc.Err()
}

// nextHeaderLine scans past blank and `#`-prefixed comment lines to
// find the single semantics header line.
func nextHeaderLine(sc *bufio.Scanner) (string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("no header line found: %w", ErrMalformedFile)
}
