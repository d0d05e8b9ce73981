package commands

import (
	pkgerrors "shoplist-backend/pkg/errors"
)

// ClearCheckedCommand represents the command to delete every checked item on
// the caller's list.
type ClearCheckedCommand struct {
	OwnerID string `json:"owner_id"`
}

// Validate checks the command's constraints
func (cmd ClearCheckedCommand) Validate() error {
	if cmd.OwnerID == "" {
		return pkgerrors.NewUnauthorizedError("owner identity is required")
	}
	return nil
}

// ClearCheckedResult reports what a clear operation actually did. The
// operation is deliberately not transactional: deletes that succeeded before
// a sibling failed stay deleted.
type ClearCheckedResult struct {
	Planned int      `json:"planned"`
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
}
