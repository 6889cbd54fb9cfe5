package mocks

import (
	"context"
	"io"
	"time"

	"finbox/internal/model"
	"finbox/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Preview(ctx context.Context, attachmentID string) (*service.PreviewImage, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PreviewImage), args.Error(1)
}

func (m *MockAttachmentService) SetPreview(ctx context.Context, attachmentID string, r io.Reader, contentType string, size int64) error {
	args := m.Called(ctx, attachmentID, r, contentType, size)
	return args.Error(0)
}

func (m *MockAttachmentService) UploadContent(ctx context.Context, attachmentID string, r io.Reader, contentType string, size int64) (*model.Attachment, error) {
	args := m.Called(ctx, attachmentID, r, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) ContentURL(ctx context.Context, attachmentID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, attachmentID, expiry)
	return args.String(0), args.Error(1)
}
