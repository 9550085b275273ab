// Package search holds the ingredient set a user builds up and runs recipe
// searches for it.
package search
