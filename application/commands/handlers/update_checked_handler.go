package handlers

import (
	"context"

	"shoplist-backend/application/commands"
	"shoplist-backend/application/ports"
	"shoplist-backend/domain/item"

	"go.uber.org/zap"
)

// UpdateCheckedHandler handles checked-flag update commands
type UpdateCheckedHandler struct {
	itemRepo ports.ItemRepository
	logger   *zap.Logger
}

// NewUpdateCheckedHandler creates a new update checked handler
func NewUpdateCheckedHandler(itemRepo ports.ItemRepository, logger *zap.Logger) *UpdateCheckedHandler {
	return &UpdateCheckedHandler{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Handle executes the update command and returns the post-update item.
// A missing (owner, item) key propagates as a not-found error.
func (h *UpdateCheckedHandler) Handle(ctx context.Context, cmd commands.UpdateCheckedCommand) (*item.Item, error) {
	updated, err := h.itemRepo.UpdateChecked(ctx, cmd.OwnerID, cmd.ItemID, cmd.Checked)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Item checked flag updated",
		zap.String("ownerID", cmd.OwnerID),
		zap.String("itemID", cmd.ItemID),
		zap.Bool("checked", cmd.Checked),
	)

	return updated, nil
}
