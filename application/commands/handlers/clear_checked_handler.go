package handlers

import (
	"context"
	"sync"

	"shoplist-backend/application/commands"
	"shoplist-backend/application/ports"
	pkgerrors "shoplist-backend/pkg/errors"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ClearCheckedHandler removes every checked item on an owner's list.
//
// The operation runs in two visible phases: plan (scan the checked item
// identifiers) and execute (one delete per identifier, issued concurrently).
// It is best-effort rather than atomic — item deletion is idempotent and the
// data is non-critical list state, so a partial failure leaves the completed
// deletes in place and surfaces an aggregate error.
type ClearCheckedHandler struct {
	itemRepo ports.ItemRepository
	events   ports.EventPublisher
	logger   *zap.Logger
}

// NewClearCheckedHandler creates a new clear checked handler
func NewClearCheckedHandler(
	itemRepo ports.ItemRepository,
	events ports.EventPublisher,
	logger *zap.Logger,
) *ClearCheckedHandler {
	return &ClearCheckedHandler{
		itemRepo: itemRepo,
		events:   events,
		logger:   logger,
	}
}

// Handle executes the clear command.
func (h *ClearCheckedHandler) Handle(ctx context.Context, cmd commands.ClearCheckedCommand) (*commands.ClearCheckedResult, error) {
	plan, err := h.plan(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	if len(plan) == 0 {
		h.logger.Debug("No checked items to clear", zap.String("ownerID", cmd.OwnerID))
		return &commands.ClearCheckedResult{}, nil
	}

	result, err := h.execute(ctx, cmd.OwnerID, plan)
	if err != nil {
		return result, err
	}

	h.logger.Info("Checked items cleared",
		zap.String("ownerID", cmd.OwnerID),
		zap.Int("deleted", result.Deleted),
	)

	if h.events != nil {
		if pubErr := h.events.Publish(ctx, "CheckedItemsCleared", result); pubErr != nil {
			h.logger.Warn("Failed to publish CheckedItemsCleared event", zap.Error(pubErr))
		}
	}

	return result, nil
}

// plan scans the owner's checked item identifiers. No deletes happen here.
func (h *ClearCheckedHandler) plan(ctx context.Context, ownerID string) ([]string, error) {
	return h.itemRepo.ListCheckedIDs(ctx, ownerID)
}

// execute issues one delete per planned identifier concurrently and waits for
// all of them to settle. Fan-out width is bounded only by the plan size; there
// is no ordering between deletes and no retry on failure.
func (h *ClearCheckedHandler) execute(ctx context.Context, ownerID string, plan []string) (*commands.ClearCheckedResult, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined error
		failed   []string
	)

	for _, itemID := range plan {
		wg.Add(1)
		go func(itemID string) {
			defer wg.Done()

			if err := h.itemRepo.Delete(ctx, ownerID, itemID); err != nil {
				h.logger.Error("Failed to delete checked item",
					zap.String("ownerID", ownerID),
					zap.String("itemID", itemID),
					zap.Error(err),
				)
				mu.Lock()
				combined = multierr.Append(combined, err)
				failed = append(failed, itemID)
				mu.Unlock()
			}
		}(itemID)
	}

	wg.Wait()

	result := &commands.ClearCheckedResult{
		Planned: len(plan),
		Deleted: len(plan) - len(failed),
		Failed:  failed,
	}

	if combined != nil {
		return result, pkgerrors.NewDatabaseError("clear checked items", combined).
			WithDetails(map[string]interface{}{"failed_count": len(failed)})
	}

	return result, nil
}
