package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/remserv/workshop/internal/analytics"
	"github.com/sirupsen/logrus"
)

// AnalyticsHandler serves financial reports. Route it behind the
// view_analytics permission: managers never see money figures.
type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(aggregator *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: aggregator}
}

// Report returns the period summary with trends against the preceding
// period. from/to accept YYYY-MM-DD; the default window is the current month
// to date.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = parsed
	}
	if !to.After(from) {
		http.Error(w, "to must be after from", http.StatusBadRequest)
		return
	}

	report, err := h.aggregator.Report(r.Context(), from, to)
	if err != nil {
		logrus.WithError(err).Error("Failed to build analytics report")
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// MasterStats returns per-master completed order counts and earnings.
func (h *AnalyticsHandler) MasterStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.aggregator.MasterStats(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to build master stats")
		http.Error(w, "Failed to build master stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
