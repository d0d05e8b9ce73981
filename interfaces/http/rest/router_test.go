package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"shoplist-backend/domain/item"
	"shoplist-backend/infrastructure/config"
	"shoplist-backend/infrastructure/di"
	"shoplist-backend/interfaces/http/rest/middleware"
	pkgerrors "shoplist-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryItemRepository is an in-memory stand-in for the DynamoDB gateway.
// It reproduces the gateway's contract: identifiers assigned on insert,
// owner-scoped lookups, not-found on conditional updates, idempotent deletes.
type memoryItemRepository struct {
	mu      sync.Mutex
	seq     int
	byOwner map[string]map[string]item.Item

	failDelete map[string]error
}

func newMemoryItemRepository() *memoryItemRepository {
	return &memoryItemRepository{
		byOwner:    make(map[string]map[string]item.Item),
		failDelete: make(map[string]error),
	}
}

func (r *memoryItemRepository) Save(ctx context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	it.ItemID = fmt.Sprintf("item-%d", r.seq)

	if r.byOwner[it.OwnerID] == nil {
		r.byOwner[it.OwnerID] = make(map[string]item.Item)
	}
	r.byOwner[it.OwnerID][it.ItemID] = *it
	return nil
}

func (r *memoryItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]item.Item, 0, len(r.byOwner[ownerID]))
	for _, it := range r.byOwner[ownerID] {
		items = append(items, it)
	}
	return items, nil
}

func (r *memoryItemRepository) ListCheckedIDs(ctx context.Context, ownerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0)
	for id, it := range r.byOwner[ownerID] {
		if it.Checked {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memoryItemRepository) UpdateChecked(ctx context.Context, ownerID, itemID string, checked bool) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byOwner[ownerID][itemID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("item")
	}
	it.Checked = checked
	r.byOwner[ownerID][itemID] = it
	return &it, nil
}

func (r *memoryItemRepository) Delete(ctx context.Context, ownerID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failDelete[itemID]; ok {
		return err
	}
	delete(r.byOwner[ownerID], itemID)
	return nil
}

func newTestServer(t *testing.T, repo *memoryItemRepository) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:   "test",
		DynamoDBTable: "shoplist-test",
		IsLambda:      true,
		EnableCORS:    true,
	}
	logger := zap.NewNop()

	commandBus := di.ProvideCommandBus(repo, nil, nil, logger)
	queryBus := di.ProvideQueryBus(repo, nil, logger)

	router := NewRouter(cfg, commandBus, queryBus, logger)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, userID string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.HeaderGatewayAuthorized, "true")
		req.Header.Set(middleware.HeaderUserID, userID)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeItem(t *testing.T, resp *http.Response) item.Item {
	t.Helper()
	defer resp.Body.Close()
	var it item.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&it))
	return it
}

func decodeItems(t *testing.T, resp *http.Response) []item.Item {
	t.Helper()
	defer resp.Body.Close()
	var items []item.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func TestItems_Unauthenticated(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		resp := doRequest(t, srv, method, "/items", "", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, method)
	}
}

func TestItems_CreateAndList(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	// Create
	resp := doRequest(t, srv, http.MethodPost, "/items", "alice", map[string]interface{}{
		"itemName": "Milk",
		"quantity": 2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeItem(t, resp)
	assert.NotEmpty(t, created.ItemID)
	assert.Equal(t, "Milk", created.ItemName)
	assert.False(t, created.Checked)

	// List
	resp = doRequest(t, srv, http.MethodGet, "/items", "alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, created.ItemID, items[0].ItemID)
}

func TestItems_ListEmptyIsArray(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	resp := doRequest(t, srv, http.MethodGet, "/items", "alice", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.JSONEq(t, "[]", buf.String())
}

func TestItems_CreateValidation(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	tests := []struct {
		name    string
		body    interface{}
		wantMsg string
	}{
		{"missing name", map[string]interface{}{"quantity": 1}, "itemname is required"},
		{"empty name", map[string]interface{}{"itemName": "", "quantity": 1}, "itemname is required"},
		{"zero quantity", map[string]interface{}{"itemName": "Milk", "quantity": 0}, "quantity"},
		{"negative quantity", map[string]interface{}{"itemName": "Milk", "quantity": -3}, "quantity"},
		// Name violations are reported before quantity violations.
		{"both invalid", map[string]interface{}{"itemName": "", "quantity": 0}, "itemname is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, http.MethodPost, "/items", "alice", tt.body)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			buf := new(bytes.Buffer)
			buf.ReadFrom(resp.Body)
			assert.Contains(t, buf.String(), tt.wantMsg)
		})
	}
}

func TestItems_CreateMalformedBody(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/items", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set(middleware.HeaderGatewayAuthorized, "true")
	req.Header.Set(middleware.HeaderUserID, "alice")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_NullBodyIsShapeViolation(t *testing.T) {
	// A literal null decodes without error but is not a JSON object; it must
	// be rejected as a malformed body, not as a missing-field violation.
	srv := newTestServer(t, newMemoryItemRepository())

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		req, err := http.NewRequest(method, srv.URL+"/items", bytes.NewReader([]byte("null")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.HeaderGatewayAuthorized, "true")
		req.Header.Set(middleware.HeaderUserID, "alice")

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, method)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		resp.Body.Close()
		assert.Contains(t, buf.String(), "request body must be a JSON object", method)
	}
}

func TestItems_UpdateChecked(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	resp := doRequest(t, srv, http.MethodPost, "/items", "alice", map[string]interface{}{
		"itemName": "Milk",
		"quantity": 1,
	})
	created := decodeItem(t, resp)

	resp = doRequest(t, srv, http.MethodPut, "/items", "alice", map[string]interface{}{
		"itemId":  created.ItemID,
		"checked": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeItem(t, resp)
	assert.True(t, updated.Checked)
	assert.Equal(t, created.ItemID, updated.ItemID)
}

func TestItems_UpdateCheckedValidation(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing itemId", map[string]interface{}{"checked": true}},
		{"empty itemId", map[string]interface{}{"itemId": "", "checked": true}},
		{"missing checked", map[string]interface{}{"itemId": "item-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, http.MethodPut, "/items", "alice", tt.body)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestItems_UpdateCheckedNotFound(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	resp := doRequest(t, srv, http.MethodPut, "/items", "alice", map[string]interface{}{
		"itemId":  "does-not-exist",
		"checked": true,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_TenantIsolation(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	resp := doRequest(t, srv, http.MethodPost, "/items", "alice", map[string]interface{}{
		"itemName": "Milk",
		"quantity": 1,
	})
	created := decodeItem(t, resp)

	// Another caller cannot see the item.
	resp = doRequest(t, srv, http.MethodGet, "/items", "bob", nil)
	assert.Empty(t, decodeItems(t, resp))

	// Nor toggle it, even knowing its identifier.
	resp = doRequest(t, srv, http.MethodPut, "/items", "bob", map[string]interface{}{
		"itemId":  created.ItemID,
		"checked": true,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_ClearChecked(t *testing.T) {
	repo := newMemoryItemRepository()
	srv := newTestServer(t, repo)

	for i, name := range []string{"Milk", "Eggs", "Bread"} {
		resp := doRequest(t, srv, http.MethodPost, "/items", "alice", map[string]interface{}{
			"itemName": name,
			"quantity": i + 1,
		})
		created := decodeItem(t, resp)

		if name != "Bread" {
			resp = doRequest(t, srv, http.MethodPut, "/items", "alice", map[string]interface{}{
				"itemId":  created.ItemID,
				"checked": true,
			})
			resp.Body.Close()
		}
	}

	resp := doRequest(t, srv, http.MethodDelete, "/items", "alice", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/items", "alice", nil)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "Bread", items[0].ItemName)
}

func TestItems_ClearCheckedEmptyList(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	resp := doRequest(t, srv, http.MethodDelete, "/items", "alice", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestItems_ClearCheckedPartialFailure(t *testing.T) {
	repo := newMemoryItemRepository()
	srv := newTestServer(t, repo)

	var ids []string
	for _, name := range []string{"Milk", "Eggs"} {
		resp := doRequest(t, srv, http.MethodPost, "/items", "alice", map[string]interface{}{
			"itemName": name,
			"quantity": 1,
		})
		created := decodeItem(t, resp)
		ids = append(ids, created.ItemID)

		resp = doRequest(t, srv, http.MethodPut, "/items", "alice", map[string]interface{}{
			"itemId":  created.ItemID,
			"checked": true,
		})
		resp.Body.Close()
	}

	repo.failDelete[ids[1]] = errors.New("conditional request failed")

	resp := doRequest(t, srv, http.MethodDelete, "/items", "alice", nil)
	defer resp.Body.Close()

	// The aggregate failure surfaces as an opaque server error; the body
	// reveals nothing about the store.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "An internal error occurred")
	assert.NotContains(t, buf.String(), "conditional")

	// The sibling delete still completed.
	resp = doRequest(t, srv, http.MethodGet, "/items", "alice", nil)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, ids[1], items[0].ItemID)
}

func TestItems_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	resp := doRequest(t, srv, http.MethodPatch, "/items", "alice", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	for _, path := range []string{"/health", "/ready"} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(t, newMemoryItemRepository())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/items", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
