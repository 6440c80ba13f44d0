// Package recovery extracts structured data from unreliable LLM output.
//
// Model responses frequently wrap JSON in markdown fences or prose, drop
// closing brackets, or misquote keys. Recover applies a bounded sequence of
// extraction and repair steps and validates the result against a declared
// schema. Every function in this package is pure; nothing here performs I/O.
package recovery
