package item

import (
	pkgerrors "shoplist-backend/pkg/errors"
	"shoplist-backend/pkg/utils"
)

// Item is a single shopping-list entry belonging to one owner.
// The (OwnerID, ItemID) pair is the only addressing key; OwnerID always
// equals the authenticated caller's identity and never changes.
type Item struct {
	OwnerID   string  `json:"ownerId" dynamodbav:"OwnerID"`
	ItemID    string  `json:"itemId" dynamodbav:"ItemID"`
	ItemName  string  `json:"itemName" dynamodbav:"ItemName"`
	Quantity  float64 `json:"quantity" dynamodbav:"Quantity"`
	Checked   bool    `json:"checked" dynamodbav:"Checked"`
	CreatedAt string  `json:"createdAt" dynamodbav:"CreatedAt"`
	// ExpireAt is an epoch-seconds TTL honored by the table, not by application
	// logic. Zero means no expiry.
	ExpireAt int64 `json:"expireAt,omitempty" dynamodbav:"ExpireAt,omitempty"`
}

// New builds an unchecked item for an owner. The ItemID is intentionally left
// empty; the store gateway assigns it on insert so callers can never spoof or
// collide identifiers.
func New(ownerID, itemName string, quantity float64) (*Item, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerId cannot be empty")
	}
	if itemName == "" {
		return nil, pkgerrors.NewValidationError("itemName is required and must be a non-empty string")
	}
	if quantity <= 0 {
		return nil, pkgerrors.NewValidationError("quantity must be a number greater than zero")
	}

	return &Item{
		OwnerID:   ownerID,
		ItemName:  itemName,
		Quantity:  quantity,
		Checked:   false,
		CreatedAt: utils.NowRFC3339(),
	}, nil
}
