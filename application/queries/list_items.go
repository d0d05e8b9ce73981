package queries

import (
	pkgerrors "shoplist-backend/pkg/errors"
)

// ListItemsQuery represents the query for every item on the caller's list.
type ListItemsQuery struct {
	OwnerID string `json:"owner_id"`
}

// Validate checks the query's constraints
func (q ListItemsQuery) Validate() error {
	if q.OwnerID == "" {
		return pkgerrors.NewUnauthorizedError("owner identity is required")
	}
	return nil
}
