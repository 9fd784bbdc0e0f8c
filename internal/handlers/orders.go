package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
	"github.com/remserv/workshop/internal/orders"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles service order requests.
type OrderHandler struct {
	manager *orders.Manager
	store   db.OrderCollection
	parts   db.PartCollection
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(manager *orders.Manager, store db.OrderCollection, parts db.PartCollection) *OrderHandler {
	return &OrderHandler{manager: manager, store: store, parts: parts}
}

type createOrderRequest struct {
	Order models.ServiceOrder  `json:"order"`
	Lines []orders.ServiceLine `json:"lines"`
}

// Orders handles the order collection endpoint: POST creates an order with
// its initial labor lines, GET lists recent orders.
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	id, err := h.manager.CreateOrder(r.Context(), req.Order, req.Lines)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := int64(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var (
		list []models.ServiceOrder
		err  error
	)
	if status := models.OrderStatus(r.URL.Query().Get("status")); status != "" {
		if !models.IsValidOrderStatus(status) {
			http.Error(w, "Unknown status", http.StatusBadRequest)
			return
		}
		list, err = h.store.FindOrdersByStatus(r.Context(), status)
	} else {
		list, err = h.store.FindOrders(r.Context(), limit)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to list orders")
		http.Error(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.ServiceOrder{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Summary returns the denormalized read model of one order.
func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	summary, err := h.manager.Summarize(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

type statusRequest struct {
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// UpdateStatus transitions an order to a new status. Completion triggers the
// stock deduction side effects inside the lifecycle manager.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	if err := h.manager.TransitionStatus(r.Context(), req.OrderID, req.Status); err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Status updated"})
}

type addServicesRequest struct {
	OrderID string               `json:"orderId"`
	Lines   []orders.ServiceLine `json:"lines"`
}

// AddServices appends priced labor lines to an order.
func (h *OrderHandler) AddServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req addServicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" || len(req.Lines) == 0 {
		http.Error(w, "Order ID and lines are required", http.StatusBadRequest)
		return
	}

	if err := h.manager.AddServices(r.Context(), req.OrderID, req.Lines); err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Lines added"})
}

type addPartsRequest struct {
	OrderID string        `json:"orderId"`
	Parts   []models.Part `json:"parts"`
}

// AddParts appends materials lines to an order.
func (h *OrderHandler) AddParts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req addPartsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" || len(req.Parts) == 0 {
		http.Error(w, "Order ID and parts are required", http.StatusBadRequest)
		return
	}

	if err := h.manager.AddParts(r.Context(), req.OrderID, req.Parts); err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Parts added"})
}

// UpdatePartStatus sets the procurement status of one materials line.
func (h *OrderHandler) UpdatePartStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PartID string            `json:"partId"`
		Status models.PartStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.PartID == "" || !models.IsValidPartStatus(req.Status) {
		http.Error(w, "Part ID and a known status are required", http.StatusBadRequest)
		return
	}

	if err := h.parts.UpdatePartStatus(r.Context(), req.PartID, req.Status); err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Part status updated"})
}

// writeOrderError maps lifecycle errors onto HTTP statuses.
func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, orders.ErrUnknownClient),
		errors.Is(err, orders.ErrUnknownCar),
		errors.Is(err, orders.ErrUnknownService),
		errors.Is(err, orders.ErrUnknownStatus),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidPrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logrus.WithError(err).Error("Order operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
