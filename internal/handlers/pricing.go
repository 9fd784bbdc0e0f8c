package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/pricing"
	"github.com/sirupsen/logrus"
)

// PricingHandler resolves unit prices against the live catalogs.
type PricingHandler struct {
	services db.ServiceCollection
	cars     db.CarCollection
	groups   db.CarGroupCollection
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(services db.ServiceCollection, cars db.CarCollection, groups db.CarGroupCollection) *PricingHandler {
	return &PricingHandler{services: services, cars: cars, groups: groups}
}

// Resolve returns the applicable unit price for a service and car. The
// snapshot is rebuilt per request so the quote always reflects the current
// price list.
func (h *PricingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serviceID := r.URL.Query().Get("service_id")
	if serviceID == "" {
		http.Error(w, "service_id is required", http.StatusBadRequest)
		return
	}
	carID := r.URL.Query().Get("car_id")

	services, err := h.services.FindServices(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load services")
		http.Error(w, "Failed to load price list", http.StatusInternalServerError)
		return
	}
	cars, err := h.cars.FindCars(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load cars")
		http.Error(w, "Failed to load cars", http.StatusInternalServerError)
		return
	}
	groups, err := h.groups.FindCarGroups(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load car groups")
		http.Error(w, "Failed to load car groups", http.StatusInternalServerError)
		return
	}

	snap := &pricing.Snapshot{Services: services, Cars: cars, Groups: groups}
	quote, err := snap.Resolve(serviceID, carID)
	if err != nil {
		if errors.Is(err, pricing.ErrServiceNotFound) {
			http.Error(w, "Service not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to resolve price", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}
