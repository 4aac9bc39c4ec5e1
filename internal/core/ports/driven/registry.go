package driven

// ParserRegistry selects the appropriate parser for a blob.
// It maintains a priority-ordered set of parsers and dispatches on the
// blob's MIME type. The registry is itself a Parser, so anything that
// composes with a single parser can compose with "all registered
// formats" instead.
type ParserRegistry interface {
	Parser

	// Register adds a parser to the registry.
	Register(parser Parser)

	// ParserFor returns the best matching parser for a MIME type.
	// Selection priority: higher Priority wins; parsers registering
	// the wildcard "*/*" act as fallbacks. Returns ErrUnsupportedType
	// when nothing matches.
	ParserFor(mimeType string) (Parser, error)
}
