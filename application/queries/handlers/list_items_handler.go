package handlers

import (
	"context"

	"shoplist-backend/application/ports"
	"shoplist-backend/application/queries"
	"shoplist-backend/domain/item"

	"go.uber.org/zap"
)

// ListItemsHandler handles list queries
type ListItemsHandler struct {
	itemRepo ports.ItemRepository
	logger   *zap.Logger
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(itemRepo ports.ItemRepository, logger *zap.Logger) *ListItemsHandler {
	return &ListItemsHandler{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Handle returns every item belonging to the query's owner. The result is
// never nil so callers always serialize an array, not null.
func (h *ListItemsHandler) Handle(ctx context.Context, query queries.ListItemsQuery) ([]item.Item, error) {
	items, err := h.itemRepo.ListByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []item.Item{}
	}

	h.logger.Debug("Listed items",
		zap.String("ownerID", query.OwnerID),
		zap.Int("count", len(items)),
	)

	return items, nil
}
