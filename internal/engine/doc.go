// Package engine compiles a model specification and a dataset into a
// fixed-effects design, an effects table and a pooling design.
//
// Compile is the entry point. It classifies the specification, compiles
// every random walk and then every grouped random effect, threading the
// dataset through each stage, builds the fixed design over the expanded
// term list and merges the pooling groups each stage produced. The
// compilers and the manual builder they share are exported for callers
// that assemble models by hand.
package engine
