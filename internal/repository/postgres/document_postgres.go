package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finbox/internal/model"
	"finbox/internal/repository"
)

const documentColumns = `id, email_id, tipo, numero_documento, fornecedor, cnpj, valor, status, confirmado_em, confirmado_por, criado_em`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries. Status writes and history
// appends share one transaction so a crash can never leave a CONFIRMED row
// without its audit entry, nor the reverse.
type DocumentPostgres struct {
	db      *sql.DB
	history repository.HistoryRepository
}

// NewDocumentPostgres creates a new DocumentPostgres repository. The history
// repository receives every audit append inside this repository's transactions.
func NewDocumentPostgres(db *sql.DB, history repository.HistoryRepository) *DocumentPostgres {
	return &DocumentPostgres{db: db, history: history}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.EmailID,
		&d.Tipo,
		&d.NumeroDocumento,
		&d.Fornecedor,
		&d.CNPJ,
		&d.Valor,
		&d.Status,
		&d.ConfirmadoEm,
		&d.ConfirmadoPor,
		&d.CriadoEm,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts the document, its attachments, the optional source email and
// the CREATED history event as one transaction.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document, atts []model.Attachment, email *model.Email, created *model.HistoryEvent) (*model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	emailID := doc.EmailID
	if email != nil {
		// Upsert by message_id so re-ingesting the same email reuses its row.
		const qEmail = `
			INSERT INTO emails (id, message_id, remetente, assunto, corpo, data_hora_email, link_email_original, criado_em)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (message_id) DO UPDATE SET message_id = EXCLUDED.message_id
			RETURNING id
		`
		var id string
		if err := tx.QueryRowContext(ctx, qEmail,
			email.ID,
			email.MessageID,
			email.Remetente,
			email.Assunto,
			email.Corpo,
			email.DataHoraEmail,
			email.LinkEmailOriginal,
			email.CriadoEm,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("upsert email: %w", err)
		}
		emailID = &id
	}

	const qDoc = `
		INSERT INTO documentos_financeiros (id, email_id, tipo, numero_documento, fornecedor, cnpj, valor, status, confirmado_em, confirmado_por, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	out, err := scanDocument(tx.QueryRowContext(ctx, qDoc,
		doc.ID,
		emailID,
		doc.Tipo,
		doc.NumeroDocumento,
		doc.Fornecedor,
		doc.CNPJ,
		doc.Valor,
		doc.Status,
		doc.ConfirmadoEm,
		doc.ConfirmadoPor,
		doc.CriadoEm,
	))
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	const qAtt = `
		INSERT INTO anexos (id, documento_id, ordinal, nome_arquivo, content_type, caminho_arquivo, preview_key, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range atts {
		a := &atts[i]
		if _, err := tx.ExecContext(ctx, qAtt,
			a.ID,
			doc.ID,
			a.Ordinal,
			a.NomeArquivo,
			a.ContentType,
			a.CaminhoArquivo,
			a.PreviewKey,
			a.CriadoEm,
		); err != nil {
			return nil, fmt.Errorf("insert attachment: %w", err)
		}
	}

	if err := r.history.Append(ctx, tx, created); err != nil {
		return nil, fmt.Errorf("append created event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documentos_financeiros WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
// Ordering is criado_em DESC, id DESC so pages stay stable under ties.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where := ` WHERE ($1 = '' OR tipo = $1) AND ($2 = '' OR status = $2)`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documentos_financeiros`+where, string(f.Tipo), string(f.Status)).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + documentColumns + ` FROM documentos_financeiros` + where + `
		ORDER BY criado_em DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, qList, string(f.Tipo), string(f.Status), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Confirm applies the PENDING -> CONFIRMED transition. The conditional UPDATE
// takes the row lock, so of N concurrent callers exactly one sees a row
// affected; the others are disambiguated into sql.ErrNoRows vs
// repository.ErrAlreadyConfirmed within the same transaction.
func (r *DocumentPostgres) Confirm(ctx context.Context, id string, at time.Time, ev *model.HistoryEvent) (*model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const qUpdate = `
		UPDATE documentos_financeiros
		SET status = $2, confirmado_em = $3, confirmado_por = $4
		WHERE id = $1 AND status = $5
	`
	res, err := tx.ExecContext(ctx, qUpdate, id, model.StatusConfirmed, at, ev.Usuario, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		var status model.DocumentStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM documentos_financeiros WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		if err != nil {
			return nil, err
		}
		return nil, repository.ErrAlreadyConfirmed
	}

	if err := r.history.Append(ctx, tx, ev); err != nil {
		return nil, fmt.Errorf("append confirmed event: %w", err)
	}

	const qSelect = `SELECT ` + documentColumns + ` FROM documentos_financeiros WHERE id = $1`
	out, err := scanDocument(tx.QueryRowContext(ctx, qSelect, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}
