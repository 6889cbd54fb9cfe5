package repository

import (
	"context"

	"finbox/internal/model"
)

// AttachmentRepository reads attachment metadata and records lazily generated
// preview keys. Attachment rows themselves are created only through
// DocumentRepository.Create.
type AttachmentRepository interface {
	// FindByID returns an attachment by its ID. Missing rows yield sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Attachment, error)

	// ListByDocument returns a document's attachments ordered by ordinal ASC.
	ListByDocument(ctx context.Context, documentID string) ([]model.Attachment, error)

	// SetPreviewKey records the object storage key of a rendered preview.
	// Missing rows yield sql.ErrNoRows.
	SetPreviewKey(ctx context.Context, id, key string) error
}
