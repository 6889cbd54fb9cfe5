package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finbox/internal/model"
	"finbox/internal/repository"
	"finbox/internal/storage"
)

// previewURLTTL bounds how long a presigned preview link stays valid.
const previewURLTTL = 15 * time.Minute

// DocumentSummary is one row of the inbox listing: the document plus the
// presigned preview URL of its first attachment, when one has been rendered.
type DocumentSummary struct {
	model.Document
	PreviewImagem *string `json:"preview_imagem"`
}

// InboxPage is the paginated inbox listing.
type InboxPage struct {
	Items []DocumentSummary `json:"data"`
	Total int               `json:"total"`
}

// AttachmentView is the read model for one attachment in the detail view.
type AttachmentView struct {
	ID            string  `json:"id"`
	Ordinal       int     `json:"ordinal"`
	NomeArquivo   string  `json:"nome_arquivo"`
	ContentType   string  `json:"content_type"`
	PreviewImagem *string `json:"preview_imagem"`
}

// DocumentDetail is the full single-document view: document, attachments and
// the complete history in insertion order.
type DocumentDetail struct {
	model.Document
	Anexos     []AttachmentView     `json:"anexos"`
	Historicos []model.HistoryEvent `json:"historicos"`
}

// EmailLink is the original-email lookup result. A nil Link is a normal
// outcome, never an error: many documents have no retrievable source link.
type EmailLink struct {
	Link *string `json:"link"`
}

// InboxService is the read-oriented facade over the registry: listing,
// single-document composition and the original-email link lookup.
type InboxService interface {
	// ListInbox returns document summaries, newest first.
	ListInbox(ctx context.Context, f ListFilter, limit, offset int) (*InboxPage, error)

	// GetDocument returns the document joined with its attachments and history.
	GetDocument(ctx context.Context, id string) (*DocumentDetail, error)

	// OriginalEmailLink resolves the stored source-email reference to a link.
	// Absence of an email or of a stored link yields {link: null}.
	OriginalEmailLink(ctx context.Context, documentID string) (*EmailLink, error)
}

type inboxService struct {
	docs    repository.DocumentRepository
	atts    repository.AttachmentRepository
	history repository.HistoryRepository
	emails  repository.EmailRepository
	store   storage.Storage
}

// NewInboxService constructs a new InboxService.
func NewInboxService(
	docs repository.DocumentRepository,
	atts repository.AttachmentRepository,
	history repository.HistoryRepository,
	emails repository.EmailRepository,
	store storage.Storage,
) InboxService {
	return &inboxService{docs: docs, atts: atts, history: history, emails: emails, store: store}
}

func (s *inboxService) ListInbox(ctx context.Context, f ListFilter, limit, offset int) (*InboxPage, error) {
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

	page, err := s.docs.List(ctx, rf, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	items := make([]DocumentSummary, 0, len(page.Items))
	for _, doc := range page.Items {
		url, err := s.firstPreviewURL(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, DocumentSummary{Document: doc, PreviewImagem: url})
	}
	return &InboxPage{Items: items, Total: page.Total}, nil
}

func (s *inboxService) GetDocument(ctx context.Context, id string) (*DocumentDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	atts, err := s.atts.ListByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	views := make([]AttachmentView, 0, len(atts))
	for _, a := range atts {
		url, err := s.previewURL(ctx, &a)
		if err != nil {
			return nil, err
		}
		views = append(views, AttachmentView{
			ID:            a.ID,
			Ordinal:       a.Ordinal,
			NomeArquivo:   a.NomeArquivo,
			ContentType:   a.ContentType,
			PreviewImagem: url,
		})
	}

	events, err := s.history.ListByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return &DocumentDetail{Document: *doc, Anexos: views, Historicos: events}, nil
}

func (s *inboxService) OriginalEmailLink(ctx context.Context, documentID string) (*EmailLink, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.EmailID == nil {
		return &EmailLink{}, nil
	}
	email, err := s.emails.FindByID(ctx, *doc.EmailID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &EmailLink{}, nil
		}
		return nil, err
	}
	return &EmailLink{Link: email.LinkEmailOriginal}, nil
}

// firstPreviewURL resolves the preview of the first attachment by ordinal.
// The first attachment is the canonical preview candidate; later attachments
// are not consulted even if they have previews.
func (s *inboxService) firstPreviewURL(ctx context.Context, documentID string) (*string, error) {
	atts, err := s.atts.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	if len(atts) == 0 {
		return nil, nil
	}
	return s.previewURL(ctx, &atts[0])
}

func (s *inboxService) previewURL(ctx context.Context, a *model.Attachment) (*string, error) {
	if a.PreviewKey == nil {
		return nil, nil
	}
	url, err := s.store.PresignGet(ctx, *a.PreviewKey, previewURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign preview: %w", err)
	}
	return &url, nil
}
