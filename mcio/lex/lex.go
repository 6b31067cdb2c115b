// Package lex centralizes the regular expressions shared by the PRISM
// and GMC file readers as package-level vars.
package lex

import "regexp"

// Source regex fragments, named exactly as in the format grammar this
// module implements: a non-negative integer, a non-negative float, a
// newline (any of CRLF/CR/LF), a PRISM transition-file header line,
// and a single PRISM value line.
const (
	NonnegIntPattern   = `(?:[1-9][0-9]*|0)`
	NonnegFloatPattern = `(?:[0-9]*\.)?[0-9]+`
	NewlinePattern     = `(?:\r\n|\r|\n)`
)

var (
	// NonnegInt matches a single non-negative integer literal.
	NonnegInt = regexp.MustCompile(`^` + NonnegIntPattern + `$`)

	// NonnegFloat matches a single non-negative float literal.
	NonnegFloat = regexp.MustCompile(`^` + NonnegFloatPattern + `$`)

	// Newline matches one newline sequence, recognizing CRLF/CR/LF.
	Newline = regexp.MustCompile(`^` + NewlinePattern + `$`)

	// PrismFileHeader matches a PRISM header line: two non-negative
	// integers separated by whitespace, followed by a newline.
	PrismFileHeader = regexp.MustCompile(`^(` + NonnegIntPattern + `)[ \t]+(` + NonnegIntPattern + `)[ \t]*` + NewlinePattern)

	// PrismValueLine matches one PRISM transition or reward line: two
	// non-negative integers (from, to) and one non-negative float
	// (probability or reward value), separated by whitespace.
	PrismValueLine = regexp.MustCompile(`^(` + NonnegIntPattern + `)[ \t]+(` + NonnegIntPattern + `)[ \t]+(` + NonnegFloatPattern + `)[ \t]*$`)

	// PrismLabelLine matches a PRISM label-file line: "<id>: <lbl1> <lbl2> ...".
	PrismLabelLine = regexp.MustCompile(`^(` + NonnegIntPattern + `):[ \t]*(.*)$`)

	// GMCColumn matches a single `$`-prefixed GMC column name.
	GMCColumn = regexp.MustCompile(`^\$([A-Za-z0-9_]+)$`)
)
