package orders

import (
	"context"
	"fmt"

	"github.com/remserv/workshop/internal/models"
)

// Summary is the denormalized read model of one order: the order itself,
// its lines and the running totals an invoice shows.
type Summary struct {
	Order         models.ServiceOrder  `json:"order"`
	Client        *models.Client       `json:"client,omitempty"`
	Car           *models.Car          `json:"car,omitempty"`
	Masters       []models.Master      `json:"masters"`
	Details       []models.OrderDetail `json:"details"`
	Parts         []models.Part        `json:"parts"`
	ServicesTotal float64              `json:"servicesTotal"`
	PartsTotal    float64              `json:"partsTotal"`
	GrandTotal    float64              `json:"grandTotal"`
}

// Summarize assembles the read model for one order. Dangling client or car
// references degrade to nil rather than failing the whole read; unknown
// master IDs are dropped from the roster slice.
func (m *Manager) Summarize(ctx context.Context, orderID string) (*Summary, error) {
	order, err := m.stores.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	details, err := m.stores.Details.FindDetailsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load labor lines: %w", err)
	}
	parts, err := m.stores.Parts.FindPartsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}

	s := &Summary{
		Order:   *order,
		Details: details,
		Parts:   parts,
		Masters: []models.Master{},
	}
	for _, d := range details {
		s.ServicesTotal += d.Total()
	}
	for _, p := range parts {
		s.PartsTotal += p.Total()
	}
	s.GrandTotal = s.ServicesTotal + s.PartsTotal

	if client, err := m.stores.Clients.FindClientByID(ctx, order.ClientID); err == nil {
		s.Client = client
	}
	if car, err := m.stores.Cars.FindCarByID(ctx, order.CarID); err == nil {
		s.Car = car
	}
	for _, id := range order.MasterIDs {
		if master, err := m.stores.Masters.FindMasterByID(ctx, id); err == nil {
			s.Masters = append(s.Masters, *master)
		}
	}
	return s, nil
}
