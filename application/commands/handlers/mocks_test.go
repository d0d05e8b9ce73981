package handlers

import (
	"context"

	"shoplist-backend/domain/item"

	"github.com/stretchr/testify/mock"
)

// MockItemRepository mocks the item repository port
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Save(ctx context.Context, it *item.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]item.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]item.Item), args.Error(1)
}

func (m *MockItemRepository) ListCheckedIDs(ctx context.Context, ownerID string) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockItemRepository) UpdateChecked(ctx context.Context, ownerID, itemID string, checked bool) (*item.Item, error) {
	args := m.Called(ctx, ownerID, itemID, checked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, ownerID, itemID string) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}

// MockEventPublisher mocks the event publisher port
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, detailType string, detail interface{}) error {
	args := m.Called(ctx, detailType, detail)
	return args.Error(0)
}
