package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType classifies a financial document.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeReceipt DocumentType = "receipt"
	DocumentTypeOther   DocumentType = "other"
)

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeOther:
		return true
	}
	return false
}

// DocumentStatus is the workflow state of a document.
// The only legal transition is StatusPending -> StatusConfirmed.
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "PENDING"
	StatusConfirmed DocumentStatus = "CONFIRMED"
)

// Document represents a financial document extracted from an incoming email.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// Invariant: ConfirmadoEm is non-nil iff Status == StatusConfirmed.
type Document struct {
	ID              string              `json:"id"`
	EmailID         *string             `json:"email_id,omitempty"`
	Tipo            DocumentType        `json:"tipo"`
	NumeroDocumento *string             `json:"numero_documento"`
	Fornecedor      *string             `json:"fornecedor"`
	CNPJ            *string             `json:"cnpj"`
	Valor           decimal.NullDecimal `json:"valor"`
	Status          DocumentStatus      `json:"status"`
	ConfirmadoEm    *time.Time          `json:"confirmado_em"`
	ConfirmadoPor   *string             `json:"confirmado_por"`
	CriadoEm        time.Time           `json:"criado_em"`
}
