package repository

import (
	"context"
	"time"

	"finbox/internal/model"
)

// DocumentFilter narrows List results. Zero values mean "no filter".
type DocumentFilter struct {
	Tipo   model.DocumentType
	Status model.DocumentStatus
}

// DocumentRepository defines persistence for the document registry.
// The status state machine is enforced here so that the status write and the
// matching history append commit as a single transaction; beyond that the
// implementation contains SQL only, no business logic.
type DocumentRepository interface {
	// Create inserts the document, its attachments, the optional source email
	// and the supplied CREATED history event in one transaction.
	// The caller provides IDs and timestamps. Returns the stored document.
	Create(ctx context.Context, doc *model.Document, atts []model.Attachment, email *model.Email, created *model.HistoryEvent) (*model.Document, error)

	// FindByID returns a document by its ID. Missing rows yield sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents matching the filter plus the total row
	// count. Ordering is newest first (criado_em DESC, id DESC) and stable.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// Confirm transitions a PENDING document to CONFIRMED and appends the
	// supplied CONFIRMED history event, both inside one transaction. The
	// conditional UPDATE serializes concurrent confirmations of the same id:
	// exactly one caller wins; the rest get ErrAlreadyConfirmed. Unknown ids
	// yield sql.ErrNoRows. Returns the updated document.
	Confirm(ctx context.Context, id string, at time.Time, ev *model.HistoryEvent) (*model.Document, error)
}
