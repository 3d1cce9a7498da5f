// Package forager provides the move foragers of the local search phase.
//
// A forager collects the scored candidate moves of a step, may cut the scan
// short and picks the step's winning move.
package forager
