// Package model defines the shared value types stored and exchanged by the
// transposition table backends: entries, bounds, moves and the opening book
// surface used for prefill.
package model
