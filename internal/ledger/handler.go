package ledger

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/ensemble-club/ensemble/internal/authz"
	"github.com/ensemble-club/ensemble/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the inventory ledger.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
	summaries singleflight.Group
}

// NewHandler constructs the ledger handler.
func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authz:     authz,
		validator: validator.New(),
	}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.PermViewAssignments, authz.PermManageInventory, authz.PermViewAll))
		r.Get("/clothing", h.listPools)
		r.Get("/clothing/{id}", h.getPool)
		r.Get("/instruments", h.listItems)
		r.Get("/instruments/{id}", h.getItem)
		r.Get("/summary", h.summary)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.PermManageClothing, authz.PermManageInventory))
		r.Post("/clothing", h.createPool)
		r.Post("/clothing/{id}/quantity", h.adjustQuantity)
		r.Post("/clothing/{id}/assignments", h.assign)
		r.Delete("/clothing/{id}/assignments/{assignee}", h.unassign)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.PermManageInstruments, authz.PermManageInventory))
		r.Post("/instruments", h.createItem)
		r.Post("/instruments/{id}/condition", h.setCondition)
		r.Post("/instruments/{id}/assignee", h.assignItem)
		r.Delete("/instruments/{id}/assignee", h.unassignItem)
	})
}

type createPoolRequest struct {
	Category        string `json:"category" validate:"required"`
	Size            string `json:"size" validate:"required"`
	InitialQuantity int    `json:"initial_quantity" validate:"gte=0"`
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type assignRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type setConditionRequest struct {
	Condition string `json:"condition" validate:"required,oneof=good needs-repair maintenance-required"`
	Note      string `json:"note"`
}

type assignItemRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

func (h *Handler) listPools(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.ListPools(r.Context()))
}

func (h *Handler) getPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.service.GetPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pool)
}

func (h *Handler) createPool(w http.ResponseWriter, r *http.Request) {
	var req createPoolRequest
	if !h.decode(w, r, &req) {
		return
	}
	pool, err := h.service.CreatePool(r.Context(), CreatePoolInput{
		Category:        req.Category,
		Size:            req.Size,
		InitialQuantity: req.InitialQuantity,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("pool created",
		slog.String("pool_id", pool.ID),
		slog.String("category", pool.Category),
		slog.String("size", pool.Size))
	httpx.JSON(w, http.StatusCreated, pool)
}

func (h *Handler) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req adjustQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	pool, err := h.service.AdjustTotalQuantity(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pool)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !h.decode(w, r, &req) {
		return
	}
	pool, err := h.service.Assign(r.Context(), chi.URLParam(r, "id"), req.AssigneeID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("clothing assigned",
		slog.String("pool_id", pool.ID),
		slog.String("assignee_id", req.AssigneeID),
		slog.Int("quantity", req.Quantity))
	httpx.JSON(w, http.StatusOK, pool)
}

func (h *Handler) unassign(w http.ResponseWriter, r *http.Request) {
	pool, err := h.service.Unassign(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "assignee"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pool)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ItemFilter{
		Condition: Condition(q.Get("condition")),
		Type:      q.Get("type"),
	}
	if filter.Condition != "" && !filter.Condition.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown condition filter")
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.ListItems(r.Context(), filter))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
		Type string `json:"type" validate:"required"`
		Code string `json:"code" validate:"required"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.service.CreateItem(r.Context(), CreateItemInput{
		Name: req.Name,
		Type: req.Type,
		Code: req.Code,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("instrument created",
		slog.String("item_id", item.ID),
		slog.String("code", item.Code))
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) setCondition(w http.ResponseWriter, r *http.Request) {
	var req setConditionRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.service.SetCondition(r.Context(), chi.URLParam(r, "id"), Condition(req.Condition), req.Note)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("instrument condition updated",
		slog.String("item_id", item.ID),
		slog.String("condition", string(item.Condition)))
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) assignItem(w http.ResponseWriter, r *http.Request) {
	var req assignItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.service.AssignItem(r.Context(), chi.URLParam(r, "id"), req.AssigneeID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) unassignItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.UnassignItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// summary deduplicates concurrent dashboard refreshes through singleflight.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resultChan := h.summaries.DoChan("summary", func() (any, error) {
		return h.service.Summarize(ctx), nil
	})
	select {
	case <-ctx.Done():
		httpx.Problem(w, http.StatusServiceUnavailable, "Timeout", "summary computation cancelled")
	case res := <-resultChan:
		httpx.JSON(w, http.StatusOK, res.Val)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", "request body is not valid JSON")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInsufficientCapacity):
		httpx.Problem(w, http.StatusConflict, "Insufficient Capacity", err.Error())
	case errors.Is(err, ErrAlreadyAssigned):
		httpx.Problem(w, http.StatusConflict, "Already Assigned", err.Error())
	case errors.Is(err, ErrDuplicateCode):
		httpx.Problem(w, http.StatusConflict, "Duplicate Code", err.Error())
	case errors.Is(err, ErrInvalidArgument):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("ledger operation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
