// Package parsers provides implementations of the Parser interface for
// various payload formats. Each parser turns blobs of a specific MIME
// type into a lazy stream of records.
//
// Parsers are registered with the ParserRegistry at startup; Defaults
// returns a registry with all built-in parsers wired.
package parsers
