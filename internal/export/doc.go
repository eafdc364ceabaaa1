// Package export renders compiled models for consumers: JSON, YAML and
// MessagePack documents for downstream fitting code, and a coloured
// human-readable summary.
package export
