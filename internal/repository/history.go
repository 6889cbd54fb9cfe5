package repository

import (
	"context"
	"database/sql"

	"finbox/internal/model"
)

// HistoryRepository is the append-only audit ledger keyed by document id.
// Append takes the transaction of the triggering document write so that a
// status change and its audit entry are never committed separately; it is
// invoked only by DocumentRepository, never by callers directly.
type HistoryRepository interface {
	// Append inserts an event inside the given transaction. The database
	// assigns the seq that fixes display order.
	Append(ctx context.Context, tx *sql.Tx, ev *model.HistoryEvent) error

	// ListByDocument returns the document's events in insertion order (seq ASC).
	// Each call reflects current durable state; the result is re-fetchable and
	// stable absent new writes.
	ListByDocument(ctx context.Context, documentID string) ([]model.HistoryEvent, error)
}
