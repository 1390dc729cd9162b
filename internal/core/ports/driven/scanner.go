package driven

import (
	"context"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// AssetScanner discovers candidate books under an asset directory.
// Each .txt file becomes one Book; a companion cover image is resolved by
// naming heuristics (same-stem sibling, "cover.*" sibling, or a same-named
// subdirectory's best-matching image).
type AssetScanner interface {
	// Scan walks the asset root and returns discovered books in a
	// deterministic order.
	Scan(ctx context.Context, root string) ([]domain.Book, error)
}
