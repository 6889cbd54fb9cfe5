package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbox/internal/model"
	"finbox/internal/repository"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("document not found")
	ErrAlreadyConfirmed = errors.New("document already confirmed")
	ErrUsuarioRequired  = errors.New("usuario is required")
	ErrTipoInvalid      = errors.New("invalid document type")
	ErrStatusInvalid    = errors.New("invalid document status")
	ErrReaderNil        = errors.New("reader is nil")
)

// AttachmentDraft carries attachment metadata supplied at ingestion. Raw bytes
// are uploaded separately against the created attachment id.
type AttachmentDraft struct {
	NomeArquivo string `json:"nome_arquivo"`
	ContentType string `json:"content_type"`
}

// EmailDraft carries the source-email data supplied by the ingestion collaborator.
type EmailDraft struct {
	MessageID         string     `json:"message_id"`
	Remetente         string     `json:"remetente"`
	Assunto           *string    `json:"assunto"`
	Corpo             *string    `json:"corpo"`
	DataHoraEmail     *time.Time `json:"data_hora_email"`
	LinkEmailOriginal *string    `json:"link_email_original"`
}

// DocumentDraft is a parsed document as delivered by the ingestion collaborator.
type DocumentDraft struct {
	Tipo            model.DocumentType  `json:"tipo"`
	NumeroDocumento *string             `json:"numero_documento"`
	Fornecedor      *string             `json:"fornecedor"`
	CNPJ            *string             `json:"cnpj"`
	Valor           decimal.NullDecimal `json:"valor"`
	Email           *EmailDraft         `json:"email"`
	Anexos          []AttachmentDraft   `json:"anexos"`
}

// ListFilter narrows document listings. Empty strings mean "no filter".
type ListFilter struct {
	Tipo   string
	Status string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// RegistryService is the sole writer of document state. It owns the
// PENDING -> CONFIRMED state machine and guarantees every accepted transition
// leaves a matching history event.
type RegistryService interface {
	// Create stores a draft as a PENDING document with its attachments and
	// source email, recording a system-originated CREATED event. Returns the
	// canonical stored state.
	Create(ctx context.Context, draft *DocumentDraft) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns documents matching the filter, newest first, with a total count.
	List(ctx context.Context, f ListFilter, limit, offset int) (*DocumentListResult, error)

	// Confirm transitions a PENDING document to CONFIRMED on behalf of usuario
	// and appends exactly one CONFIRMED event. Re-confirming an already
	// confirmed document is a hard error (ErrAlreadyConfirmed); the stored
	// state is left untouched. Returns the updated document so callers never
	// need a second fetch.
	Confirm(ctx context.Context, id, usuario string) (*model.Document, error)
}

type registryService struct {
	repo repository.DocumentRepository
}

// NewRegistryService constructs a new RegistryService.
func NewRegistryService(repo repository.DocumentRepository) RegistryService {
	return &registryService{repo: repo}
}

func (s *registryService) Create(ctx context.Context, draft *DocumentDraft) (*model.Document, error) {
	if draft == nil {
		return nil, errors.New("draft is nil")
	}
	if !draft.Tipo.Valid() {
		return nil, ErrTipoInvalid
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:              uuid.New().String(),
		Tipo:            draft.Tipo,
		NumeroDocumento: draft.NumeroDocumento,
		Fornecedor:      draft.Fornecedor,
		CNPJ:            draft.CNPJ,
		Valor:           draft.Valor,
		Status:          model.StatusPending,
		CriadoEm:        now,
	}

	atts := make([]model.Attachment, 0, len(draft.Anexos))
	for i, a := range draft.Anexos {
		id := uuid.New().String()
		atts = append(atts, model.Attachment{
			ID:             id,
			DocumentoID:    doc.ID,
			Ordinal:        i,
			NomeArquivo:    a.NomeArquivo,
			ContentType:    a.ContentType,
			CaminhoArquivo: path.Join("anexos", id, a.NomeArquivo),
			CriadoEm:       now,
		})
	}

	var email *model.Email
	if draft.Email != nil {
		email = &model.Email{
			ID:                uuid.New().String(),
			MessageID:         draft.Email.MessageID,
			Remetente:         draft.Email.Remetente,
			Assunto:           draft.Email.Assunto,
			Corpo:             draft.Email.Corpo,
			DataHoraEmail:     draft.Email.DataHoraEmail,
			LinkEmailOriginal: draft.Email.LinkEmailOriginal,
			CriadoEm:          now,
		}
	}

	// System-originated event: no usuario.
	created := &model.HistoryEvent{
		ID:          uuid.New().String(),
		DocumentoID: doc.ID,
		Evento:      model.EventCreated,
		DataHora:    now,
	}

	stored, err := s.repo.Create(ctx, doc, atts, email, created)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return stored, nil
}

// Get returns a document by ID.
func (s *registryService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List returns paginated documents without exposing repository types.
func (s *registryService) List(ctx context.Context, f ListFilter, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	rf, err := repositoryFilter(f)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.List(ctx, rf, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *registryService) Confirm(ctx context.Context, id, usuario string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if usuario == "" {
		return nil, ErrUsuarioRequired
	}

	now := time.Now().UTC()
	ev := &model.HistoryEvent{
		ID:          uuid.New().String(),
		DocumentoID: id,
		Evento:      model.EventConfirmed,
		Usuario:     &usuario,
		DataHora:    now,
	}

	doc, err := s.repo.Confirm(ctx, id, now, ev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrAlreadyConfirmed) {
			return nil, ErrAlreadyConfirmed
		}
		return nil, err
	}
	return doc, nil
}

func repositoryFilter(f ListFilter) (repository.DocumentFilter, error) {
	var rf repository.DocumentFilter
	if f.Tipo != "" {
		t := model.DocumentType(f.Tipo)
		if !t.Valid() {
			return rf, ErrTipoInvalid
		}
		rf.Tipo = t
	}
	if f.Status != "" {
		st := model.DocumentStatus(f.Status)
		if st != model.StatusPending && st != model.StatusConfirmed {
			return rf, ErrStatusInvalid
		}
		rf.Status = st
	}
	return rf, nil
}
