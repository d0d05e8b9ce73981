package commands

import (
	pkgerrors "shoplist-backend/pkg/errors"
)

// UpdateCheckedCommand represents the command to toggle an item's checked flag.
// Checked is the only attribute mutable after creation.
type UpdateCheckedCommand struct {
	OwnerID string `json:"owner_id"`
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
}

// Validate checks the command's constraints
func (cmd UpdateCheckedCommand) Validate() error {
	if cmd.OwnerID == "" {
		return pkgerrors.NewUnauthorizedError("owner identity is required")
	}
	if cmd.ItemID == "" {
		return pkgerrors.NewValidationError("itemId is required")
	}
	return nil
}
