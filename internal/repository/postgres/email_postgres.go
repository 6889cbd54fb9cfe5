package postgres

import (
	"context"
	"database/sql"

	"finbox/internal/model"
	"finbox/internal/repository"
)

// EmailPostgres is a PostgreSQL implementation of repository.EmailRepository.
type EmailPostgres struct {
	db *sql.DB
}

// NewEmailPostgres creates a new EmailPostgres repository.
func NewEmailPostgres(db *sql.DB) *EmailPostgres {
	return &EmailPostgres{db: db}
}

var _ repository.EmailRepository = (*EmailPostgres)(nil)

// FindByID fetches a single email by its ID.
func (r *EmailPostgres) FindByID(ctx context.Context, id string) (*model.Email, error) {
	const q = `
		SELECT id, message_id, remetente, assunto, corpo, data_hora_email, link_email_original, criado_em
		FROM emails
		WHERE id = $1
	`
	var e model.Email
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID,
		&e.MessageID,
		&e.Remetente,
		&e.Assunto,
		&e.Corpo,
		&e.DataHoraEmail,
		&e.LinkEmailOriginal,
		&e.CriadoEm,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
