package mocks

import (
	"context"

	"finbox/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockInboxService struct {
	mock.Mock
}

func (m *MockInboxService) ListInbox(ctx context.Context, f service.ListFilter, limit, offset int) (*service.InboxPage, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InboxPage), args.Error(1)
}

func (m *MockInboxService) GetDocument(ctx context.Context, id string) (*service.DocumentDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetail), args.Error(1)
}

func (m *MockInboxService) OriginalEmailLink(ctx context.Context, documentID string) (*service.EmailLink, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EmailLink), args.Error(1)
}
