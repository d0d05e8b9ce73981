package handlers

import (
	"context"

	"shoplist-backend/application/commands"
	"shoplist-backend/application/ports"
	"shoplist-backend/domain/item"

	"go.uber.org/zap"
)

// CreateItemHandler handles item creation commands
type CreateItemHandler struct {
	itemRepo ports.ItemRepository
	events   ports.EventPublisher
	logger   *zap.Logger
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(
	itemRepo ports.ItemRepository,
	events ports.EventPublisher,
	logger *zap.Logger,
) *CreateItemHandler {
	return &CreateItemHandler{
		itemRepo: itemRepo,
		events:   events,
		logger:   logger,
	}
}

// Handle executes the create item command and returns the stored item,
// including the identifier assigned by the store gateway.
func (h *CreateItemHandler) Handle(ctx context.Context, cmd commands.CreateItemCommand) (*item.Item, error) {
	it, err := item.New(cmd.OwnerID, cmd.ItemName, cmd.Quantity)
	if err != nil {
		return nil, err
	}
	it.ExpireAt = cmd.ExpireAt

	if err := h.itemRepo.Save(ctx, it); err != nil {
		return nil, err
	}

	h.logger.Info("Item created",
		zap.String("ownerID", it.OwnerID),
		zap.String("itemID", it.ItemID),
	)

	if h.events != nil {
		if err := h.events.Publish(ctx, "ItemCreated", it); err != nil {
			// Event delivery is best effort; the item is already persisted.
			h.logger.Warn("Failed to publish ItemCreated event", zap.Error(err))
		}
	}

	return it, nil
}
