package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDocumentTypeValid(t *testing.T) {
	tests := []struct {
		tipo DocumentType
		want bool
	}{
		{DocumentTypeInvoice, true},
		{DocumentTypeReceipt, true},
		{DocumentTypeOther, true},
		{DocumentType(""), false},
		{DocumentType("boleto"), false},
		{DocumentType("INVOICE"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.tipo), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tipo.Valid())
		})
	}
}

func TestDocumentJSON(t *testing.T) {
	doc := Document{
		ID:     "doc-1",
		Tipo:   DocumentTypeInvoice,
		Valor:  decimal.NewNullDecimal(decimal.RequireFromString("250.00")),
		Status: StatusPending,
	}

	b, err := json.Marshal(doc)
	assert.NoError(t, err)

	var m map[string]any
	assert.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "invoice", m["tipo"])
	assert.Equal(t, "PENDING", m["status"])
	assert.Equal(t, "250", m["valor"])
	assert.Nil(t, m["confirmado_em"])
	assert.NotContains(t, m, "email_id")
}
