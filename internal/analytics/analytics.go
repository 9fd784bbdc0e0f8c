package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/remserv/workshop/internal/commission"
	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
)

// Summary holds the money figures for a set of completed orders. Only
// completed orders count toward revenue; everything else is work in flight.
type Summary struct {
	ServicesRevenue float64 `json:"servicesRevenue"`
	PartsRevenue    float64 `json:"partsRevenue"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalSalaries   float64 `json:"totalSalaries"`
	NetProfit       float64 `json:"netProfit"`
	OrderCount      int     `json:"orderCount"`
}

// Report is a period summary with trends against the preceding period of
// equal length.
type Report struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	Current      Summary   `json:"current"`
	Previous     Summary   `json:"previous"`
	RevenueTrend float64   `json:"revenueTrend"`
	ProfitTrend  float64   `json:"profitTrend"`
}

// MasterStat is one master's completed work and earnings.
type MasterStat struct {
	MasterID        string  `json:"masterId"`
	Name            string  `json:"name"`
	CompletedOrders int     `json:"completedOrders"`
	TotalEarnings   float64 `json:"totalEarnings"`
}

// Totals folds completed orders into a summary. Salaries use the exact same
// commission computation that pays the masters, so reported salary figures
// always match what was actually owed.
func Totals(orders []models.ServiceOrder, details []models.OrderDetail, parts []models.Part, masters []models.Master) Summary {
	detailsByOrder := make(map[string][]models.OrderDetail)
	for _, d := range details {
		detailsByOrder[d.OrderID] = append(detailsByOrder[d.OrderID], d)
	}
	partsByOrder := make(map[string][]models.Part)
	for _, p := range parts {
		partsByOrder[p.OrderID] = append(partsByOrder[p.OrderID], p)
	}

	var s Summary
	for _, order := range orders {
		if order.Status != models.StatusCompleted {
			continue
		}
		id := order.ID.Hex()
		s.OrderCount++
		for _, d := range detailsByOrder[id] {
			s.ServicesRevenue += d.Total()
		}
		for _, p := range partsByOrder[id] {
			s.PartsRevenue += p.Total()
		}
		for _, amount := range commission.Compute(order, detailsByOrder[id], masters) {
			s.TotalSalaries += amount
		}
	}
	s.TotalRevenue = s.ServicesRevenue + s.PartsRevenue
	s.NetProfit = s.TotalRevenue - s.TotalSalaries
	return s
}

// Trend returns the percentage change from prev to curr. A zero base period
// reports +100% when anything happened and 0% when nothing did, so dashboards
// never divide by zero.
func Trend(curr, prev float64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 100
		}
		return 0
	}
	return (curr - prev) / prev * 100
}

// Aggregator assembles period reports from the persistence layer. Reads are
// batch loads folded in memory; the collections involved are small enough
// that pushing the aggregation into the store buys nothing.
type Aggregator struct {
	orders  db.OrderCollection
	details db.DetailCollection
	parts   db.PartCollection
	masters db.MasterCollection
}

// NewAggregator builds an Aggregator over the given stores.
func NewAggregator(orders db.OrderCollection, details db.DetailCollection, parts db.PartCollection, masters db.MasterCollection) *Aggregator {
	return &Aggregator{orders: orders, details: details, parts: parts, masters: masters}
}

// Report summarizes completed orders dated within [from, to) and compares
// against the preceding period of equal length.
func (a *Aggregator) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	completed, err := a.orders.FindOrdersByStatus(ctx, models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed orders: %w", err)
	}
	details, err := a.details.FindAllDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load labor lines: %w", err)
	}
	parts, err := a.parts.FindAllParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}
	masters, err := a.masters.FindMasters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load masters: %w", err)
	}

	span := to.Sub(from)
	prevFrom := from.Add(-span)

	current := Totals(ordersWithin(completed, from, to), details, parts, masters)
	previous := Totals(ordersWithin(completed, prevFrom, from), details, parts, masters)

	return &Report{
		From:         from,
		To:           to,
		Current:      current,
		Previous:     previous,
		RevenueTrend: Trend(current.TotalRevenue, previous.TotalRevenue),
		ProfitTrend:  Trend(current.NetProfit, previous.NetProfit),
	}, nil
}

// MasterStats returns per-master completed order counts and total earnings
// across the whole history, sorted by earnings descending.
func (a *Aggregator) MasterStats(ctx context.Context) ([]MasterStat, error) {
	completed, err := a.orders.FindOrdersByStatus(ctx, models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed orders: %w", err)
	}
	details, err := a.details.FindAllDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load labor lines: %w", err)
	}
	masters, err := a.masters.FindMasters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load masters: %w", err)
	}

	stats := make(map[string]*MasterStat, len(masters))
	for _, m := range masters {
		stats[m.ID.Hex()] = &MasterStat{
			MasterID: m.ID.Hex(),
			Name:     m.FirstName + " " + m.LastName,
		}
	}

	for _, order := range completed {
		earnings := commission.Compute(order, details, masters)
		for _, id := range order.MasterIDs {
			stat, ok := stats[id]
			if !ok {
				continue
			}
			stat.CompletedOrders++
			stat.TotalEarnings += earnings[id]
		}
	}

	out := make([]MasterStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalEarnings > out[j].TotalEarnings })
	return out, nil
}

func ordersWithin(orders []models.ServiceOrder, from, to time.Time) []models.ServiceOrder {
	var out []models.ServiceOrder
	for _, o := range orders {
		if !o.Date.Before(from) && o.Date.Before(to) {
			out = append(out, o)
		}
	}
	return out
}
