package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/remserv/workshop/internal/ledger"
	"github.com/remserv/workshop/internal/models"
	"github.com/sirupsen/logrus"
)

// InventoryHandler exposes the warehouse ledger and its stock projection.
type InventoryHandler struct {
	ledger *ledger.Ledger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(l *ledger.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: l}
}

// Transactions handles the ledger endpoint: POST appends an entry, GET lists
// recent entries newest first.
func (h *InventoryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.record(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InventoryHandler) record(w http.ResponseWriter, r *http.Request) {
	var tx models.WarehouseTransaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	id, err := h.ledger.RecordTransaction(r.Context(), tx)
	if err != nil {
		if errors.Is(err, models.ErrTotalMismatch) ||
			errors.Is(err, models.ErrUnknownTxType) ||
			errors.Is(err, models.ErrEmptyTransaction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("Failed to record warehouse transaction")
		http.Error(w, "Failed to record transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := int64(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	txs, err := h.ledger.Transactions(r.Context(), limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list warehouse transactions")
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.WarehouseTransaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txs)
}

// Stock returns the current stock levels projected from the full ledger.
func (h *InventoryHandler) Stock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.ledger.ProjectStock(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to project stock")
		http.Error(w, "Failed to project stock", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}
