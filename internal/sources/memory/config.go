package memory

import (
	"fmt"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// ParseConfig builds the blob for a config-declared memory source. The
// "content" key carries the payload literal; "origin", "mime_type" and
// "encoding" are optional hints. Origin defaults to "memory".
func ParseConfig(source domain.SourceConfig) (domain.Blob, error) {
	content, ok := source.Config["content"]
	if !ok {
		return domain.Blob{}, fmt.Errorf("%w: memory source requires content", domain.ErrConfiguration)
	}

	origin := source.Config["origin"]
	if origin == "" {
		origin = "memory"
	}

	opts := []domain.BlobOption{domain.WithOrigin(origin)}
	if mimeType := source.Config["mime_type"]; mimeType != "" {
		opts = append(opts, domain.WithMIMEType(mimeType))
	}
	if encoding := source.Config["encoding"]; encoding != "" {
		opts = append(opts, domain.WithEncoding(encoding))
	}
	return domain.NewBlob([]byte(content), opts...), nil
}
