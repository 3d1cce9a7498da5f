// Package termination provides phase and solver termination predicates.
//
// A termination decides when a phase must stop and reports a time gradient:
// the progress through its budget in [0,1]. Terminations without a budget
// report 0. Or and And combine terminations.
package termination
