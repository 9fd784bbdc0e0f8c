package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves CRUD for the reference catalogs: price list, cars,
// car groups, masters and clients.
type CatalogHandler struct {
	services db.ServiceCollection
	cars     db.CarCollection
	groups   db.CarGroupCollection
	masters  db.MasterCollection
	clients  db.ClientCollection
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(services db.ServiceCollection, cars db.CarCollection, groups db.CarGroupCollection, masters db.MasterCollection, clients db.ClientCollection) *CatalogHandler {
	return &CatalogHandler{services: services, cars: cars, groups: groups, masters: masters, clients: clients}
}

// Services handles price list CRUD.
func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.services.FindServices(r.Context())
		writeList(w, list, err)
	case http.MethodPost:
		var service models.Service
		if !decode(w, r, &service) {
			return
		}
		if err := service.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id, err := h.services.InsertService(r.Context(), service)
		writeInsert(w, id, err)
	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var service models.Service
		if !decode(w, r, &service) {
			return
		}
		if err := service.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeMutation(w, h.services.UpdateService(r.Context(), id, service))
	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		writeMutation(w, h.services.DeleteService(r.Context(), id))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Cars handles car catalog CRUD.
func (h *CatalogHandler) Cars(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.cars.FindCars(r.Context())
		writeList(w, list, err)
	case http.MethodPost:
		var car models.Car
		if !decode(w, r, &car) {
			return
		}
		id, err := h.cars.InsertCar(r.Context(), car)
		writeInsert(w, id, err)
	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var car models.Car
		if !decode(w, r, &car) {
			return
		}
		writeMutation(w, h.cars.UpdateCar(r.Context(), id, car))
	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		writeMutation(w, h.cars.DeleteCar(r.Context(), id))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CarGroups handles car group CRUD. Group order matters to pricing, so
// listing preserves insertion order.
func (h *CatalogHandler) CarGroups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.groups.FindCarGroups(r.Context())
		writeList(w, list, err)
	case http.MethodPost:
		var group models.CarGroup
		if !decode(w, r, &group) {
			return
		}
		id, err := h.groups.InsertCarGroup(r.Context(), group)
		writeInsert(w, id, err)
	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var group models.CarGroup
		if !decode(w, r, &group) {
			return
		}
		writeMutation(w, h.groups.UpdateCarGroup(r.Context(), id, group))
	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		writeMutation(w, h.groups.DeleteCarGroup(r.Context(), id))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Masters handles master roster CRUD.
func (h *CatalogHandler) Masters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.masters.FindMasters(r.Context())
		writeList(w, list, err)
	case http.MethodPost:
		var master models.Master
		if !decode(w, r, &master) {
			return
		}
		if err := master.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id, err := h.masters.InsertMaster(r.Context(), master)
		writeInsert(w, id, err)
	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var master models.Master
		if !decode(w, r, &master) {
			return
		}
		if err := master.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeMutation(w, h.masters.UpdateMaster(r.Context(), id, master))
	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		writeMutation(w, h.masters.DeleteMaster(r.Context(), id))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Clients handles client catalog CRUD.
func (h *CatalogHandler) Clients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.clients.FindClients(r.Context())
		writeList(w, list, err)
	case http.MethodPost:
		var client models.Client
		if !decode(w, r, &client) {
			return
		}
		id, err := h.clients.InsertClient(r.Context(), client)
		writeInsert(w, id, err)
	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var client models.Client
		if !decode(w, r, &client) {
			return
		}
		writeMutation(w, h.clients.UpdateClient(r.Context(), id, client))
	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		writeMutation(w, h.clients.DeleteClient(r.Context(), id))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func requireID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func writeList(w http.ResponseWriter, list interface{}, err error) {
	if err != nil {
		logrus.WithError(err).Error("Failed to list catalog entries")
		http.Error(w, "Failed to list entries", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func writeInsert(w http.ResponseWriter, id string, err error) {
	if err != nil {
		logrus.WithError(err).Error("Failed to insert catalog entry")
		http.Error(w, "Failed to insert entry", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func writeMutation(w http.ResponseWriter, err error) {
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		logrus.WithError(err).Error("Failed to update catalog entry")
		http.Error(w, "Failed to update entry", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "OK"})
}
