// Package config defines the format-agnostic run configuration: where the
// dataset comes from, which model specifications to compile and how to
// write the results. Concrete loaders for HCL and TOML live in separate
// packages and implement Loader.
package config
