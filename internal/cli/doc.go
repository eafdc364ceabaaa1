// Package cli defines the hiermodel command tree (compile, terms,
// version), validates user input and maps failures to process exit codes
// through ExitError. Flags are translated into app.Config.
package cli
