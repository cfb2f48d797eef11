package ledger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ensemble-club/ensemble/internal/authz"
	"github.com/ensemble-club/ensemble/internal/shared"
)

type handlerFixture struct {
	router   chi.Router
	service  *Service
	sessions *shared.SessionManager
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewService(NewStore())
	handler := NewHandler(logger, service, authz.Middleware{Engine: authz.NewDefaultEngine(), Logger: logger})

	router := chi.NewRouter()
	router.Route("/api/inventory", handler.MountRoutes)
	return &handlerFixture{router: router, service: service, sessions: sessions}
}

func (f *handlerFixture) do(t *testing.T, role authz.Role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	sess, err := f.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	if role != "" {
		sess.SetUser("test-actor", string(role))
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerRejectsUnauthorizedRoles(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, authz.RoleTrainee, http.MethodPost, "/api/inventory/clothing", `{"category":"Uniform - Jacket","size":"M","initial_quantity":5}`)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, authz.RoleTrainee, http.MethodGet, "/api/inventory/clothing", "")
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, "", http.MethodGet, "/api/inventory/summary", "")
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandlerClothingFlow(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/clothing", `{"category":"Uniform - Jacket","size":"M","initial_quantity":15}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var pool FungiblePool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pool))
	require.Equal(t, 15, pool.TotalQuantity)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/clothing/"+pool.ID+"/assignments", `{"assignee_id":"jane","quantity":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pool))
	require.Equal(t, 2, pool.InUse)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/clothing/"+pool.ID+"/assignments", `{"assignee_id":"bob","quantity":14}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodDelete, "/api/inventory/clothing/"+pool.ID+"/assignments/jane", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pool))
	require.Zero(t, pool.InUse)

	// Club leaders hold manage-inventory and may read through view-all.
	rr = f.do(t, authz.RoleClubLeader, http.MethodGet, "/api/inventory/clothing", "")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlerInstrumentFlow(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/instruments", `{"name":"Piano - Grand","type":"Piano","code":"PNO-001"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var item DiscreteItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &item))
	require.Equal(t, ConditionGood, item.Condition)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/instruments", `{"name":"Copy","type":"Piano","code":"PNO-001"}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/instruments/"+item.ID+"/condition", `{"condition":"needs-repair","note":"string broke"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &item))
	require.Equal(t, ConditionNeedsRepair, item.Condition)
	require.Len(t, item.MaintenanceLog, 1)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/instruments/"+item.ID+"/condition", `{"condition":"smashed"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/instruments/"+item.ID+"/assignee", `{"assignee_id":"john"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/instruments/"+item.ID+"/assignee", `{"assignee_id":"alice"}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodDelete, "/api/inventory/instruments/"+item.ID+"/assignee", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodGet, "/api/inventory/instruments?condition=needs-repair", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var items []DiscreteItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
}

func TestHandlerMalformedBody(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/clothing", `{"category":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, authz.RoleInventoryManager, http.MethodPost, "/api/inventory/clothing", `{"size":"M"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerSummary(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	pool, err := f.service.CreatePool(ctx, CreatePoolInput{Category: "Uniform - Jacket", Size: "M", InitialQuantity: 15})
	require.NoError(t, err)
	_, err = f.service.Assign(ctx, pool.ID, "jane", 3)
	require.NoError(t, err)

	rr := f.do(t, authz.RoleInventoryManager, http.MethodGet, "/api/inventory/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var summary Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	require.Equal(t, 15, summary.TotalQuantity)
	require.Equal(t, 3, summary.InUse)
	require.Equal(t, 12, summary.Available)
}
