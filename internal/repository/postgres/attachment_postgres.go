package postgres

import (
	"context"
	"database/sql"

	"finbox/internal/model"
	"finbox/internal/repository"
)

const attachmentColumns = `id, documento_id, ordinal, nome_arquivo, content_type, caminho_arquivo, preview_key, criado_em`

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

func scanAttachment(row interface{ Scan(...any) error }) (*model.Attachment, error) {
	var a model.Attachment
	if err := row.Scan(
		&a.ID,
		&a.DocumentoID,
		&a.Ordinal,
		&a.NomeArquivo,
		&a.ContentType,
		&a.CaminhoArquivo,
		&a.PreviewKey,
		&a.CriadoEm,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID fetches a single attachment by its ID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM anexos WHERE id = $1`
	return scanAttachment(r.db.QueryRowContext(ctx, q, id))
}

// ListByDocument returns a document's attachments ordered by ordinal.
func (r *AttachmentPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM anexos WHERE documento_id = $1 ORDER BY ordinal ASC`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetPreviewKey records the object storage key of a rendered preview.
func (r *AttachmentPostgres) SetPreviewKey(ctx context.Context, id, key string) error {
	const q = `UPDATE anexos SET preview_key = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
