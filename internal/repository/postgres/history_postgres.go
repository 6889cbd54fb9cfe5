package postgres

import (
	"context"
	"database/sql"

	"finbox/internal/model"
	"finbox/internal/repository"
)

// HistoryPostgres is a PostgreSQL implementation of repository.HistoryRepository.
// Rows are never updated or deleted; seq is a BIGSERIAL assigned on insert and
// fixes display order independently of wall-clock skew.
type HistoryPostgres struct {
	db *sql.DB
}

// NewHistoryPostgres creates a new HistoryPostgres repository.
func NewHistoryPostgres(db *sql.DB) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

var _ repository.HistoryRepository = (*HistoryPostgres)(nil)

// Append inserts an event inside the caller's transaction.
func (r *HistoryPostgres) Append(ctx context.Context, tx *sql.Tx, ev *model.HistoryEvent) error {
	const q = `
		INSERT INTO historicos (id, documento_id, evento, usuario, data_hora)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq
	`
	return tx.QueryRowContext(ctx, q,
		ev.ID,
		ev.DocumentoID,
		ev.Evento,
		ev.Usuario,
		ev.DataHora,
	).Scan(&ev.Seq)
}

// ListByDocument returns events in insertion order.
func (r *HistoryPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.HistoryEvent, error) {
	const q = `
		SELECT id, documento_id, seq, evento, usuario, data_hora
		FROM historicos
		WHERE documento_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.HistoryEvent, 0)
	for rows.Next() {
		var ev model.HistoryEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.DocumentoID,
			&ev.Seq,
			&ev.Evento,
			&ev.Usuario,
			&ev.DataHora,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
