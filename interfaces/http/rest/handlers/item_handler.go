package handlers

import (
	"encoding/json"
	"net/http"

	"shoplist-backend/application/commands"
	"shoplist-backend/application/commands/bus"
	"shoplist-backend/application/queries"
	querybus "shoplist-backend/application/queries/bus"
	"shoplist-backend/pkg/auth"
	pkgerrors "shoplist-backend/pkg/errors"
	"shoplist-backend/pkg/utils"

	"go.uber.org/zap"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ItemHandler {
	return &ItemHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// CreateItemRequest represents the request body for adding an item.
// Field order mirrors validation order: the name is checked before the
// quantity, and only the first violation is reported.
type CreateItemRequest struct {
	ItemName string  `json:"itemName" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	ExpireAt int64   `json:"expireAt,omitempty"`
}

// UpdateItemRequest represents the request body for toggling the checked flag.
// Pointers distinguish an absent field from its zero value; both fields are
// mandatory.
type UpdateItemRequest struct {
	ItemID  *string `json:"itemId"`
	Checked *bool   `json:"checked"`
}

// List handles GET /items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListItemsQuery{OwnerID: userCtx.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Create handles POST /items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	// Decoding into a pointer distinguishes a literal null body, which is a
	// shape violation, from an object with missing fields.
	var req *CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req == nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("request body must be a JSON object"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	cmd := commands.CreateItemCommand{
		OwnerID:  userCtx.UserID,
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		ExpireAt: req.ExpireAt,
	}

	result, err := h.commandBus.Execute(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, result)
}

// UpdateChecked handles PUT /items
func (h *ItemHandler) UpdateChecked(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req *UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req == nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("request body must be a JSON object"))
		return
	}
	if req.ItemID == nil || *req.ItemID == "" {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("itemId is required"))
		return
	}
	if req.Checked == nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("checked is required"))
		return
	}

	cmd := commands.UpdateCheckedCommand{
		OwnerID: userCtx.UserID,
		ItemID:  *req.ItemID,
		Checked: *req.Checked,
	}

	result, err := h.commandBus.Execute(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ClearChecked handles DELETE /items. A partial failure is reported as an
// opaque server error; completed deletes stay deleted.
func (h *ItemHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.ClearCheckedCommand{OwnerID: userCtx.UserID}

	if _, err := h.commandBus.Execute(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondJSON writes a JSON response
func (h *ItemHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
