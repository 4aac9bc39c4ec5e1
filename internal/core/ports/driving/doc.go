// Package driving defines interfaces that external actors (CLI, TUI,
// MCP) use to interact with core services. These are the "driving"
// ports in hexagonal architecture terminology - they drive the
// application.
//
// The central surface is Loader: records on demand, consumable lazily
// (LazyLoad), eagerly (Load) or over channels (Stream). The remaining
// services manage the configuration and persistence around it.
//
// Implementations of these interfaces live in internal/core/services.
package driving
