// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load the
// run configuration, read the dataset, compile every model and export the
// results. It is decoupled from any specific entrypoint like a CLI.
package app
