package model

import "time"

// Attachment is a binary artifact (scanned image, PDF) belonging to one document.
// CaminhoArquivo is the object storage key of the raw content. PreviewKey points
// to the rendered preview image when the external renderer has produced one;
// it stays nil indefinitely otherwise.
//
// Attachments are immutable after ingestion except for lazy preview population.
type Attachment struct {
	ID             string    `json:"id"`
	DocumentoID    string    `json:"documento_id"`
	Ordinal        int       `json:"ordinal"`
	NomeArquivo    string    `json:"nome_arquivo"`
	ContentType    string    `json:"content_type"`
	CaminhoArquivo string    `json:"caminho_arquivo"`
	PreviewKey     *string   `json:"-"`
	CriadoEm       time.Time `json:"criado_em"`
}
