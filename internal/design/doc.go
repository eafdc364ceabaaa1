// Package design turns fixed-effect terms and a dataset into a numeric
// design matrix, describes its columns as an effects table, and records
// which effects share a pooled standard deviation.
//
// Column naming follows the usual conventions for model matrices: a
// numeric column keeps its variable name, a factor column is the variable
// name followed by the level, interaction columns are joined with ':' with
// the first variable varying fastest, and the intercept is "(Intercept)".
package design
