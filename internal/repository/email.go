package repository

import (
	"context"

	"finbox/internal/model"
)

// EmailRepository reads source-email records. Emails are written only as part
// of DocumentRepository.Create (upserted by message_id).
type EmailRepository interface {
	// FindByID returns an email by its ID. Missing rows yield sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Email, error)
}
