package mocks

import (
	"context"
	"database/sql"

	"finbox/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, tx *sql.Tx, ev *model.HistoryEvent) error {
	args := m.Called(ctx, tx, ev)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByDocument(ctx context.Context, documentID string) ([]model.HistoryEvent, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryEvent), args.Error(1)
}
