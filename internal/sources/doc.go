// Package sources provides implementations of the Source interface
// for various blob origins. Each source knows how to enumerate blobs
// from a specific backend (filesystem, GitHub, GCS, in-memory).
//
// Sources are registered with the SourceFactory at startup.
package sources
