// Package editor turns an Intent and the current Scenario into an ordered
// RFC 6902 patch.
//
// The editor never mutates the Scenario it is given. Patches are built so that
// applying them sequentially to a single document is correct: array removals
// within one patch are always emitted in descending index order.
package editor
