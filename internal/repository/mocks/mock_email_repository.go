package mocks

import (
	"context"

	"finbox/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockEmailRepository struct {
	mock.Mock
}

func (m *MockEmailRepository) FindByID(ctx context.Context, id string) (*model.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Email), args.Error(1)
}
