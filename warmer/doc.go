// Package warmer pre-populates a transposition table before search begins.
//
// A warming session generates synthetic or book-derived entries in four
// categories (position, book, endgame, tactical) according to a strategy, and
// stores them into a target table under three budgets: a maximum entry count,
// a wall-clock timeout and a memory limit. Each session reports what it
// generated, what the target accepted and how much memory the accepted
// entries consumed.
package warmer
