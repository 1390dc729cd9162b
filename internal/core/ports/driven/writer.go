package driven

import (
	"context"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// BookWriter renders a document model to an on-disk container file.
// It is the serialization boundary: archive structure, OPF/NCX generation
// and the format-required navigation documents are the implementation's
// concern, not the core's.
type BookWriter interface {
	// Write serializes doc to path. Implementations must not leave a
	// truncated file behind on failure: write to a temporary target and
	// move it into place only after full serialization succeeds.
	Write(ctx context.Context, doc *domain.Document, path string) error
}
