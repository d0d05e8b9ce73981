package commands

import (
	pkgerrors "shoplist-backend/pkg/errors"
)

// CreateItemCommand represents the command to add an item to the caller's list.
type CreateItemCommand struct {
	OwnerID  string  `json:"owner_id"`
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	// ExpireAt is an optional epoch-seconds expiry passed through to the store.
	ExpireAt int64 `json:"expire_at,omitempty"`
}

// Validate checks the command's constraints in a fixed order and reports only
// the first violation: owner, then name, then quantity.
func (cmd CreateItemCommand) Validate() error {
	if cmd.OwnerID == "" {
		return pkgerrors.NewUnauthorizedError("owner identity is required")
	}
	if cmd.ItemName == "" {
		return pkgerrors.NewValidationError("itemName is required and must be a non-empty string")
	}
	if cmd.Quantity <= 0 {
		return pkgerrors.NewValidationError("quantity must be a number greater than zero")
	}
	return nil
}
