// Package frame holds the tabular dataset that is threaded through model
// compilation.
//
// A Frame is immutable by convention: every operation that adds or re-encodes
// columns returns a new Frame and leaves the receiver untouched. Columns are
// never mutated after construction, so two frames may safely share them.
// This gives each compilation stage its own snapshot without copying the
// underlying values.
//
// Values are exposed as cty.Value so that configuration-supplied data and
// loaded tables share one value model with the rest of the application.
package frame
