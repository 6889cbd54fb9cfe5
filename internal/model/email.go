package model

import "time"

// Email is the source-email record supplied by the ingestion collaborator.
// MessageID is the provider's stable message identifier and is unique; the
// same email may own several documents. LinkEmailOriginal is an opaque deep
// link back to the message and is legitimately absent for many emails.
type Email struct {
	ID                string     `json:"id"`
	MessageID         string     `json:"message_id"`
	Remetente         string     `json:"remetente"`
	Assunto           *string    `json:"assunto"`
	Corpo             *string    `json:"corpo"`
	DataHoraEmail     *time.Time `json:"data_hora_email"`
	LinkEmailOriginal *string    `json:"link_email_original"`
	CriadoEm          time.Time  `json:"criado_em"`
}
