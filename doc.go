// Package mcreward analyzes discrete-time Markov chains carrying
// per-edge reward decorations: it builds the target-adjusted
// probability matrix for a chain and a set of absorbing target states,
// solves the resulting sparse linear systems for the expectation,
// variance, and covariance of accumulated reward until absorption, and
// generates the Herman self-stabilisation ring chain as a closed-form
// test instance.
//
// Subpackages, leaves first:
//
//	sparsemat/      — row-indexed sparse matrix with point read/write and identity subtraction
//	solver/         — AMG-preconditioned Krylov solver (conjugate gradients / BiCGStab)
//	chain/          — the Markov chain data model: states, edges, reward/result decorations
//	analyzer/       — target-adjusted probability matrix, rewarded image vectors, variance/covariance composition
//	calc/           — expectation/variance/covariance facade, sequencing analyzer and solver
//	herman/         — Herman-N ring chain generator
//	mcio/lex/       — shared regexes for the PRISM and GMC readers
//	mcio/targetset/ — integer-list and PRISM-label target-set readers
//	mcio/prism/     — PRISM .tra/.trew/label readers
//	mcio/gmc/       — generic comma-separated Markov-chain table reader
//	cmd/mcstat/     — batch CLI front end over the above
//
// A Chain is single-threaded by contract: no concurrent mutation or
// mutation-during-read is supported, unlike a general-purpose
// concurrent data structure.
package mcreward
