// Package testutil provides small planning problems and recording policies
// shared by the solvo test suites.
package testutil
