// Package hcl provides the HCL implementation of config.Loader. It parses
// files with hclparse, decodes them into the schema structs with gohcl and
// translates those into the format-agnostic config model.
package hcl
