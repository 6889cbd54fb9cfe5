package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finbox/internal/model"
	repoMocks "finbox/internal/repository/mocks"
	"finbox/internal/storage"
	storeMocks "finbox/internal/storage/mocks"
)

func TestAttachmentService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("absent preview is not an error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1"}, nil)

		img, err := svc.Preview(ctx, "att-1")

		assert.NoError(t, err)
		assert.Nil(t, img)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("cached preview is served", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		key := "previews/att-1"
		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1", PreviewKey: &key}, nil)
		mStore.On("Get", ctx, key).Return(
			io.NopCloser(strings.NewReader("png-bytes")),
			storage.ObjectInfo{Key: key, ContentType: "image/png"},
			nil,
		)

		img, err := svc.Preview(ctx, "att-1")

		assert.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), img.Bytes)
		assert.Equal(t, "image/png", img.ContentType)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		img, err := svc.Preview(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, img)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		key := "previews/att-1"
		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1", PreviewKey: &key}, nil)
		mStore.On("Get", ctx, key).Return(nil, storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.Preview(ctx, "att-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "get preview")
	})
}

func TestAttachmentService_SetPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		r := strings.NewReader("png-bytes")
		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1", DocumentoID: "doc-1"}, nil)
		mStore.On("Put", ctx, "previews/att-1", r, storage.PutObjectOptions{
			Size:        9,
			ContentType: "image/png",
			Metadata:    map[string]string{"documento-id": "doc-1"},
		}).Return(storage.ObjectInfo{Key: "previews/att-1"}, nil)
		mRepo.On("SetPreviewKey", ctx, "att-1", "previews/att-1").Return(nil)

		err := svc.SetPreview(ctx, "att-1", r, "image/png", 9)

		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := NewAttachmentService(new(storeMocks.MockStorage), new(repoMocks.MockAttachmentRepository))

		err := svc.SetPreview(ctx, "att-1", nil, "image/png", 0)

		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("record failure rolls back the uploaded object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		r := strings.NewReader("png-bytes")
		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1"}, nil)
		mStore.On("Put", ctx, "previews/att-1", r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("SetPreviewKey", ctx, "att-1", "previews/att-1").Return(errors.New("db fail"))
		mStore.On("Delete", ctx, "previews/att-1").Return(nil)

		err := svc.SetPreview(ctx, "att-1", r, "image/png", 9)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "record preview failed")
		mStore.AssertExpectations(t)
	})
}

func TestAttachmentService_UploadContent(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		r := strings.NewReader("pdf-bytes")
		att := &model.Attachment{
			ID:             "att-1",
			NomeArquivo:    "nf.pdf",
			CaminhoArquivo: "anexos/att-1/nf.pdf",
		}
		mRepo.On("FindByID", ctx, "att-1").Return(att, nil)
		mStore.On("Put", ctx, "anexos/att-1/nf.pdf", r, storage.PutObjectOptions{
			Size:        9,
			ContentType: "application/pdf",
			Metadata:    map[string]string{"original-filename": "nf.pdf"},
		}).Return(storage.ObjectInfo{Key: "anexos/att-1/nf.pdf"}, nil)

		got, err := svc.UploadContent(ctx, "att-1", r, "application/pdf", 9)

		assert.NoError(t, err)
		assert.Equal(t, att, got)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		r := strings.NewReader("pdf-bytes")
		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1", CaminhoArquivo: "k"}, nil)
		mStore.On("Put", ctx, "k", r, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.UploadContent(ctx, "att-1", r, "application/pdf", 9)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upload to storage")
	})
}

func TestAttachmentService_ContentURL(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "att-1").Return(&model.Attachment{ID: "att-1", CaminhoArquivo: "anexos/att-1/nf.pdf"}, nil)
		mStore.On("PresignGet", ctx, "anexos/att-1/nf.pdf", 15*time.Minute).
			Return("https://minio.local/anexos/att-1/nf.pdf", nil)

		url, err := svc.ContentURL(ctx, "att-1", 15*time.Minute)

		assert.NoError(t, err)
		assert.Equal(t, "https://minio.local/anexos/att-1/nf.pdf", url)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.ContentURL(ctx, "missing", time.Minute)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
