// Package recall provides the default best-solution recaller.
//
// The recaller compares every committed step with the best score of the
// run, snapshots the working solution on strict improvement and fans the
// resulting BestSolutionEvent out to channel subscribers and listeners.
package recall
