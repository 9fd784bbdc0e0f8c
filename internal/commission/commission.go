package commission

import (
	"github.com/remserv/workshop/internal/models"
)

// LaborTotal sums the labor lines of an order. Parts never enter the labor
// total; they are costed through the warehouse ledger instead.
func LaborTotal(details []models.OrderDetail) float64 {
	var total float64
	for _, d := range details {
		total += d.Total()
	}
	return total
}

// Compute returns the commission earned per assigned master on one order.
// The labor total is split equally across the assigned masters and each
// master earns their personal percentage of their share. Master IDs that do
// not resolve against the roster are skipped; their share is simply not paid
// out, which is why the sum of commissions never exceeds the labor total.
// Orders with no assigned masters produce an empty map.
func Compute(order models.ServiceOrder, details []models.OrderDetail, masters []models.Master) map[string]float64 {
	earnings := make(map[string]float64)
	if len(order.MasterIDs) == 0 {
		return earnings
	}

	orderID := order.ID.Hex()
	var labor float64
	for _, d := range details {
		if d.OrderID == orderID {
			labor += d.Total()
		}
	}

	byID := make(map[string]models.Master, len(masters))
	for _, m := range masters {
		byID[m.ID.Hex()] = m
	}

	share := labor / float64(len(order.MasterIDs))
	for _, id := range order.MasterIDs {
		master, ok := byID[id]
		if !ok {
			continue
		}
		earnings[id] += share * master.CommissionPercentage / 100
	}
	return earnings
}
