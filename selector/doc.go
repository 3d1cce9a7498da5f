// Package selector adapts move and placement sources to the MoveSelector
// and EntityPlacer contracts.
//
// Composition (union, filtering, caching) is left to callers; these
// adapters cover fixed lists, generator functions over the working
// solution, and per-step random shuffling.
package selector
