package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/internal/session"
	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

type testAPI struct {
	server *httptest.Server
	store  *sqlite.Store
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := sqlite.NewStore()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { _ = store.Detach() })

	_, err := store.PutUser(&types.User{
		Username:     "chef",
		PasswordHash: session.HashPassword("mise-en-place"),
		Role:         types.RoleAdmin,
	})
	require.NoError(t, err)

	sessions := session.NewManager(store, time.Hour)
	api := NewServer(store, sessions, Options{})
	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)

	sess, err := sessions.Login("chef", "mise-en-place")
	require.NoError(t, err)

	return &testAPI{server: server, store: store, token: sess.Token}
}

// do sends a request with the session token and decodes the JSON reply.
func (a *testAPI) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestLoginIssuesToken(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(map[string]string{"username": "chef", "password": "mise-en-place"})
	resp, err := http.Post(api.server.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.NotEmpty(t, reply.Token)
	assert.Equal(t, types.RoleAdmin, reply.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(map[string]string{"username": "chef", "password": "wrong"})
	resp, err := http.Post(api.server.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutesRequireSession(t *testing.T) {
	api := newTestAPI(t)

	resp, err := http.Get(api.server.URL + "/api/stock")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestItemAndStockRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	var item types.CatalogItem
	status := api.do(t, http.MethodPost, "/api/items", map[string]any{
		"name": "Rice", "unit": "kg", "category": "grains",
	}, &item)
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, item.ItemID)

	// Duplicate names conflict.
	status = api.do(t, http.MethodPost, "/api/items", map[string]any{"name": "rice"}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Purchase through the adjustment route.
	var movement types.Movement
	status = api.do(t, http.MethodPost, "/api/adjustments", map[string]any{
		"item_id": item.ItemID, "kind": "PURCHASE", "quantity": 5,
		"unit_price": 80.0, "vendor": "City Grocers",
	}, &movement)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, types.KindPurchase, movement.Kind)

	var stockReply struct {
		Stock []types.StockEntry `json:"stock"`
	}
	status = api.do(t, http.MethodGet, "/api/stock", nil, &stockReply)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, stockReply.Stock, 1)
	assert.Equal(t, 5.0, stockReply.Stock[0].Quantity)
}

func TestAdjustmentErrors(t *testing.T) {
	api := newTestAPI(t)

	status := api.do(t, http.MethodPost, "/api/adjustments", map[string]any{
		"item_id": 999, "kind": "PURCHASE", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	id := registerItem(t, api, "Rice", "kg")
	status = api.do(t, http.MethodPost, "/api/adjustments", map[string]any{
		"item_id": id, "kind": "EVAPORATE", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReconcileRoute(t *testing.T) {
	api := newTestAPI(t)
	rice := registerItem(t, api, "Rice", "kg")
	require.NoError(t, api.store.SetStock(rice, 5))

	plan := []byte(`[
		{"item_id": ` + jsonInt(rice) + `, "quantity": 2, "unit": "kg", "display_name": "Rice"},
		{"item_id": -1, "quantity": 0.01, "unit": "kg", "display_name": "Saffron"}
	]`)

	var reply struct {
		Used           []types.UsageLine    `json:"used"`
		Short          []types.ShortageLine `json:"short"`
		FullyFulfilled bool                 `json:"fully_fulfilled"`
	}
	status := api.do(t, http.MethodPost, "/api/reconcile", plan, &reply)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, reply.Used, 1)
	assert.Equal(t, "Rice", reply.Used[0].Name)
	require.Len(t, reply.Short, 1)
	assert.Equal(t, types.ShortageNotTracked, reply.Short[0].Reason)
	assert.False(t, reply.FullyFulfilled)

	qty, err := api.store.GetStock(rice)
	require.NoError(t, err)
	assert.Equal(t, 3.0, qty)
}

func TestReconcileRouteRejectsMalformedPlans(t *testing.T) {
	api := newTestAPI(t)

	status := api.do(t, http.MethodPost, "/api/reconcile", []byte(`{"oops": true}`), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMovementsFilter(t *testing.T) {
	api := newTestAPI(t)
	rice := registerItem(t, api, "Rice", "kg")

	for _, kind := range []string{"PURCHASE", "CONSUME"} {
		qty := 5.0
		if kind == "CONSUME" {
			qty = 2
		}
		status := api.do(t, http.MethodPost, "/api/adjustments", map[string]any{
			"item_id": rice, "kind": kind, "quantity": qty,
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	var reply struct {
		Movements []types.Movement `json:"movements"`
	}
	status := api.do(t, http.MethodGet, "/api/movements?kind=CONSUME", nil, &reply)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, reply.Movements, 1)
	assert.Equal(t, types.KindConsume, reply.Movements[0].Kind)
}

func TestPlanRouteUnconfigured(t *testing.T) {
	api := newTestAPI(t)

	status := api.do(t, http.MethodPost, "/api/plan", map[string]any{
		"customers": 4, "time_limit_minutes": 60,
	}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	api := newTestAPI(t)

	status := api.do(t, http.MethodPost, "/api/logout", nil, nil)
	require.Equal(t, http.StatusOK, status)

	status = api.do(t, http.MethodGet, "/api/stock", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func registerItem(t *testing.T, api *testAPI, name, unit string) int64 {
	t.Helper()
	var item types.CatalogItem
	status := api.do(t, http.MethodPost, "/api/items", map[string]any{"name": name, "unit": unit}, &item)
	require.Equal(t, http.StatusCreated, status)
	return item.ItemID
}

func jsonInt(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
