package ports

import (
	"context"

	"shoplist-backend/domain/item"
)

// ItemRepository is the only gateway to the partitioned item store.
//
// Every operation takes the owner identifier as a mandatory parameter, never
// as an optional filter, so a call site cannot accidentally drop tenant
// scoping. Isolation is enforced in the store's key condition, not by
// filtering results after the fact.
type ItemRepository interface {
	// Save inserts a new item. The repository assigns the item identifier
	// before the write; any caller-supplied identifier is discarded.
	Save(ctx context.Context, it *item.Item) error

	// ListByOwner returns every item belonging to the owner, unordered.
	ListByOwner(ctx context.Context, ownerID string) ([]item.Item, error)

	// ListCheckedIDs returns the identifiers of the owner's checked items,
	// projecting only the identifier attribute to keep the bulk-delete scan
	// cheap.
	ListCheckedIDs(ctx context.Context, ownerID string) ([]string, error)

	// UpdateChecked sets the checked flag on one item and returns the
	// post-update record. It fails with a not-found error when the
	// (owner, item) key does not exist.
	UpdateChecked(ctx context.Context, ownerID, itemID string, checked bool) (*item.Item, error)

	// Delete removes one item. Deleting an absent key is not an error.
	Delete(ctx context.Context, ownerID, itemID string) error
}

// EventPublisher publishes domain events to the event bus. Implementations
// must be safe to call when event publishing is disabled.
type EventPublisher interface {
	Publish(ctx context.Context, detailType string, detail interface{}) error
}
