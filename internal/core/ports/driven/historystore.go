package driven

import (
	"context"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// HistoryStore persists per-book conversion outcomes.
// Recording is best-effort: a failing store must never fail a conversion.
type HistoryStore interface {
	// Record persists a conversion outcome.
	Record(ctx context.Context, rec *domain.ConversionRecord) error

	// List returns the most recent records, newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.ConversionRecord, error)

	// Close releases the underlying storage.
	Close() error
}
