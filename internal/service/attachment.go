package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"finbox/internal/model"
	"finbox/internal/repository"
	"finbox/internal/storage"
)

// PreviewImage is a cached rendered preview.
type PreviewImage struct {
	Bytes       []byte
	ContentType string
}

// AttachmentService serves attachment bytes: raw content from the ingestion
// collaborator and rendered previews from the preview collaborator. It does
// not render anything itself; it only persists and serves what collaborators
// deliver.
type AttachmentService interface {
	// Preview returns the cached preview of an attachment. (nil, nil) means no
	// preview has been rendered yet, which is a normal outcome, not an error.
	Preview(ctx context.Context, attachmentID string) (*PreviewImage, error)

	// SetPreview stores preview bytes delivered by the rendering collaborator
	// and records their location on the attachment.
	SetPreview(ctx context.Context, attachmentID string, r io.Reader, contentType string, size int64) error

	// UploadContent stores the raw attachment bytes under the locator assigned
	// at ingestion.
	UploadContent(ctx context.Context, attachmentID string, r io.Reader, contentType string, size int64) (*model.Attachment, error)

	// ContentURL returns a presigned download URL for the raw content.
	ContentURL(ctx context.Context, attachmentID string, expiry time.Duration) (string, error)
}

type attachmentService struct {
	store storage.Storage
	repo  repository.AttachmentRepository
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.Storage, repo repository.AttachmentRepository) AttachmentService {
	return &attachmentService{store: store, repo: repo}
}

func (s *attachmentService) find(ctx context.Context, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return att, nil
}

func (s *attachmentService) Preview(ctx context.Context, attachmentID string) (*PreviewImage, error) {
	att, err := s.find(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if att.PreviewKey == nil {
		return nil, nil
	}

	rc, info, err := s.store.Get(ctx, *att.PreviewKey)
	if err != nil {
		return nil, fmt.Errorf("get preview: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read preview: %w", err)
	}
	return &PreviewImage{Bytes: b, ContentType: info.ContentType}, nil
}

func (s *attachmentService) SetPreview(ctx context.Context, attachmentID string, r io.Reader, contentType string, size int64) error {
	if r == nil {
		return ErrReaderNil
	}
	att, err := s.find(ctx, attachmentID)
	if err != nil {
		return err
	}

	key := "previews/" + att.ID
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"documento-id": att.DocumentoID,
		},
	}); err != nil {
		return fmt.Errorf("upload preview: %w", err)
	}

	if err := s.repo.SetPreviewKey(ctx, att.ID, key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return fmt.Errorf("record preview failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("record preview failed: %w", err)
	}
	return nil
}

func (s *attachmentService) UploadContent(ctx context.Context, attachmentID string, r io.Reader, contentType string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	att, err := s.find(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, att.CaminhoArquivo, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": att.NomeArquivo,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	return att, nil
}

func (s *attachmentService) ContentURL(ctx context.Context, attachmentID string, expiry time.Duration) (string, error) {
	att, err := s.find(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, att.CaminhoArquivo, expiry)
	if err != nil {
		return "", fmt.Errorf("presign content: %w", err)
	}
	return url, nil
}
