package filesystem

import (
	"mime"
	"path/filepath"
	"strings"
)

// extMIMETypes maps file extensions to MIME types for common types not
// in Go's registry.
var extMIMETypes = map[string]string{
	".md": "text/markdown", ".markdown": "text/markdown",
	".go": "text/x-go", ".py": "text/x-python", ".rs": "text/x-rust",
	".ts": "text/typescript", ".tsx": "text/typescript-jsx", ".jsx": "text/javascript-jsx",
	".yaml": "text/yaml", ".yml": "text/yaml", ".toml": "text/toml",
	".sh": "text/x-shellscript", ".bash": "text/x-shellscript",
	".sql": "text/x-sql", ".rb": "text/x-ruby", ".java": "text/x-java",
	".kt": "text/x-kotlin", ".kts": "text/x-kotlin",
	".swift": "text/x-swift", ".vue": "text/x-vue", ".svelte": "text/x-svelte",
	".csv": "text/csv", ".tsv": "text/tab-separated-values",
	".jsonl": "application/jsonl", ".ndjson": "application/x-ndjson",
}

// detectMIMEType determines the MIME type from a file extension.
func detectMIMEType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "text/plain"
	}

	// Check our custom mappings first (avoids Go's mime returning video/mp2t for .ts)
	if t, ok := extMIMETypes[strings.ToLower(ext)]; ok {
		return t
	}

	// Fallback to Go's mime package
	mimeType := mime.TypeByExtension(ext)
	if mimeType != "" {
		// Strip charset and other parameters.
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}

	return "text/plain"
}
