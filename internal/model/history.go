package model

import "time"

// EventKind names an audited state change.
type EventKind string

const (
	EventCreated   EventKind = "CREATED"
	EventConfirmed EventKind = "CONFIRMED"
)

// HistoryEvent is one immutable entry in a document's audit trail.
// Seq is assigned by the database and preserves insertion order even when
// wall-clock timestamps tie or skew.
type HistoryEvent struct {
	ID          string    `json:"id"`
	DocumentoID string    `json:"-"`
	Seq         int64     `json:"-"`
	Evento      EventKind `json:"evento"`
	Usuario     *string   `json:"usuario"`
	DataHora    time.Time `json:"data_hora"`
}
