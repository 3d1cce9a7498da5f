// Package acceptor provides the acceptance policies of the local search phase.
//
// An acceptor decides whether a speculatively scored move stays eligible for
// selection in the current step. Every acceptor is a lifecycle listener so it
// can refresh its thresholds at step and phase boundaries.
package acceptor
