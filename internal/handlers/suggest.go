package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/remserv/workshop/internal/suggest"
	"github.com/sirupsen/logrus"
)

// SuggestHandler proposes services for an incoming car via the AI advisor.
type SuggestHandler struct {
	suggester suggest.Suggester
}

// NewSuggestHandler creates a new suggestion handler. suggester may be nil
// when no API key is configured; the endpoint then reports unavailability.
func NewSuggestHandler(suggester suggest.Suggester) *SuggestHandler {
	return &SuggestHandler{suggester: suggester}
}

type suggestRequest struct {
	Mileage    int    `json:"mileage"`
	Complaints string `json:"complaints"`
}

// Suggest returns recommended services for the given mileage and complaints.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.suggester == nil {
		http.Error(w, "Suggestions are not configured", http.StatusServiceUnavailable)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Complaints == "" {
		http.Error(w, "Complaints text is required", http.StatusBadRequest)
		return
	}

	suggestions, err := h.suggester.SuggestServices(r.Context(), req.Mileage, req.Complaints)
	if err != nil {
		logrus.WithError(err).Error("Failed to get service suggestions")
		http.Error(w, "Failed to get suggestions", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestions)
}
