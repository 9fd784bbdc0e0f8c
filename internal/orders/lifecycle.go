package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
	"github.com/remserv/workshop/internal/pricing"
	"github.com/sirupsen/logrus"
)

// partDeMarkup backs out the purchase cost from a part's selling price.
// Parts are quoted to the client with a 30% markup over cost, so the
// ledger's cost basis for a sold part is price / 1.3.
const partDeMarkup = 1.3

var (
	// ErrUnknownStatus is returned for a status value outside the lifecycle.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrUnknownClient is returned when the order references a client that
	// does not exist.
	ErrUnknownClient = errors.New("client does not exist")
	// ErrUnknownCar is returned when the order references a car that does
	// not exist.
	ErrUnknownCar = errors.New("car does not exist")
	// ErrUnknownService is returned when a labor line references a service
	// that does not exist.
	ErrUnknownService = errors.New("service does not exist")
	// ErrInvalidQuantity is returned for a labor or materials line with
	// quantity < 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidPrice is returned for a materials line with a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
)

// EventPublisher receives order status change notifications. Implementations
// must not block the caller for long; publishing is best effort.
type EventPublisher interface {
	PublishOrderStatus(orderID string, status models.OrderStatus, masterIDs []string)
}

// Stores bundles the persistence interfaces the lifecycle manager reads and
// writes.
type Stores struct {
	Orders   db.OrderCollection
	Details  db.DetailCollection
	Parts    db.PartCollection
	Ledger   db.TransactionCollection
	Services db.ServiceCollection
	Cars     db.CarCollection
	Groups   db.CarGroupCollection
	Clients  db.ClientCollection
	Masters  db.MasterCollection
}

// Manager drives the service order lifecycle: creation, labor and parts
// lines, status transitions and the completion side effects (stock deduction
// and commission-bearing state).
type Manager struct {
	stores Stores
	events EventPublisher
}

// NewManager builds a lifecycle manager. events may be nil when no broker is
// configured; status changes are then applied without notification.
func NewManager(stores Stores, events EventPublisher) *Manager {
	return &Manager{stores: stores, events: events}
}

// ServiceLine is a request to add one priced labor line to an order. When
// ServiceID is set the unit cost is resolved through the price list; a line
// with only CustomName carries its explicit cost.
type ServiceLine struct {
	ServiceID  string  `json:"serviceId,omitempty"`
	CustomName string  `json:"customName,omitempty"`
	Quantity   int     `json:"quantity"`
	Cost       float64 `json:"cost,omitempty"`
}

// CreateOrder validates references, stamps the initial state and persists
// the order together with its initial labor lines as one batch. New orders
// always start in StatusNew with the stock flag down, whatever the caller
// sent.
func (m *Manager) CreateOrder(ctx context.Context, order models.ServiceOrder, lines []ServiceLine) (string, error) {
	if _, err := m.stores.Clients.FindClientByID(ctx, order.ClientID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrUnknownClient
		}
		return "", fmt.Errorf("failed to look up client: %w", err)
	}
	car, err := m.stores.Cars.FindCarByID(ctx, order.CarID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrUnknownCar
		}
		return "", fmt.Errorf("failed to look up car: %w", err)
	}

	details, err := m.priceLines(ctx, car.ID.Hex(), lines)
	if err != nil {
		return "", err
	}

	order.Status = models.StatusNew
	order.IsStockDeducted = false
	order.EndDate = nil
	if order.Date.IsZero() {
		order.Date = time.Now()
	}

	id, err := m.stores.Orders.InsertOrderWithDetails(ctx, order, details)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": id,
		"client":   order.ClientID,
		"car":      order.CarID,
		"lines":    len(details),
	}).Info("Service order created")

	m.publish(id, models.StatusNew, order.MasterIDs)
	return id, nil
}

// AddServices appends priced labor lines to an existing order. There is no
// status gate: lines may be added at any point in the lifecycle, including
// after completion. Lines added after completion simply feed later labor
// totals; the stock deduction is not revisited.
func (m *Manager) AddServices(ctx context.Context, orderID string, lines []ServiceLine) error {
	order, err := m.stores.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	details, err := m.priceLines(ctx, order.CarID, lines)
	if err != nil {
		return err
	}
	for i := range details {
		details[i].OrderID = orderID
	}
	if err := m.stores.Details.InsertDetails(ctx, details); err != nil {
		return fmt.Errorf("failed to add labor lines: %w", err)
	}
	return nil
}

// AddParts appends materials lines to an order. Part prices are entered as
// quoted to the client; the cost basis is derived at deduction time. Lines
// with quantity < 1 or a negative price are rejected before anything is
// written, so they can never reach the completion deduction.
func (m *Manager) AddParts(ctx context.Context, orderID string, parts []models.Part) error {
	if _, err := m.stores.Orders.FindOrderByID(ctx, orderID); err != nil {
		return err
	}
	for i := range parts {
		if parts[i].Quantity < 1 {
			return ErrInvalidQuantity
		}
		if parts[i].Price < 0 {
			return ErrInvalidPrice
		}
		parts[i].OrderID = orderID
		if parts[i].Status == "" {
			parts[i].Status = models.PartOrdered
		}
	}
	if err := m.stores.Parts.InsertParts(ctx, parts); err != nil {
		return fmt.Errorf("failed to add parts: %w", err)
	}
	return nil
}

// TransitionStatus moves an order to the given status. Any transition
// between known statuses is allowed. Moving to StatusCompleted triggers the
// once-only completion side effects: the end date is stamped if unset, and
// if the order carries parts and stock was never deducted, a sale entry is
// appended to the warehouse ledger atomically with the status update. The
// is_stock_deducted flag guarantees the deduction happens at most once even
// if the order is reopened and completed again.
func (m *Manager) TransitionStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !models.IsValidOrderStatus(status) {
		return ErrUnknownStatus
	}
	order, err := m.stores.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{"status": status}

	if status != models.StatusCompleted {
		if err := m.stores.Orders.UpdateOrderFields(ctx, orderID, fields); err != nil {
			return err
		}
		m.publish(orderID, status, order.MasterIDs)
		return nil
	}

	if order.EndDate == nil {
		fields["end_date"] = time.Now()
	}

	if !order.IsStockDeducted {
		tx, err := m.buildDeduction(ctx, order)
		if err != nil {
			return err
		}
		if tx != nil {
			fields["is_stock_deducted"] = true
			if err := m.stores.Orders.CompleteWithDeduction(ctx, orderID, fields, *tx); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"order_id": orderID,
				"lines":    len(tx.Parts),
				"total":    tx.TotalAmount,
			}).Info("Stock deducted on order completion")
			m.publish(orderID, status, order.MasterIDs)
			return nil
		}
	}

	if err := m.stores.Orders.UpdateOrderFields(ctx, orderID, fields); err != nil {
		return err
	}
	m.publish(orderID, status, order.MasterIDs)
	return nil
}

// buildDeduction assembles the sale ledger entry for an order's parts.
// Returns nil when the order has no parts, or when a sale entry for this
// order already exists in the ledger (replay protection). The ledger records
// cost basis, not sale price: each line's purchase price is the part price
// with the standard markup backed out, and the entry total is the cost-basis
// sum, so the entry reconciles like any other ledger entry.
func (m *Manager) buildDeduction(ctx context.Context, order *models.ServiceOrder) (*models.WarehouseTransaction, error) {
	parts, err := m.stores.Parts.FindPartsByOrder(ctx, order.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to load order parts: %w", err)
	}
	if len(parts) == 0 {
		return nil, nil
	}

	if _, err := m.stores.Ledger.FindSaleByOrderID(ctx, order.ID.Hex()); err == nil {
		logrus.WithField("order_id", order.ID.Hex()).Warn("Sale entry already recorded, skipping deduction")
		return nil, nil
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing sale: %w", err)
	}

	lines := make([]models.TransactionLine, 0, len(parts))
	var total float64
	for _, p := range parts {
		cost := p.Price / partDeMarkup
		line := models.TransactionLine{
			Name:          p.Name,
			PartNumber:    p.PartNumber,
			Quantity:      float64(p.Quantity),
			PurchasePrice: cost,
			SellingPrice:  p.Price,
		}
		total += line.Quantity * cost
		lines = append(lines, line)
	}

	tx := &models.WarehouseTransaction{
		Date:        time.Now(),
		Type:        models.TxSale,
		OrderID:     order.ID.Hex(),
		Parts:       lines,
		TotalAmount: total,
	}
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deduction entry: %w", err)
	}
	return tx, nil
}

// priceLines turns service line requests into persisted labor lines,
// resolving unit prices through the price list for the order's car.
func (m *Manager) priceLines(ctx context.Context, carID string, lines []ServiceLine) ([]models.OrderDetail, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	var snap *pricing.Snapshot
	details := make([]models.OrderDetail, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		detail := models.OrderDetail{
			ServiceID:  line.ServiceID,
			CustomName: line.CustomName,
			Quantity:   line.Quantity,
			Cost:       line.Cost,
		}
		if line.ServiceID != "" {
			if snap == nil {
				var err error
				snap, err = m.snapshot(ctx)
				if err != nil {
					return nil, err
				}
			}
			quote, err := snap.Resolve(line.ServiceID, carID)
			if err != nil {
				if errors.Is(err, pricing.ErrServiceNotFound) {
					return nil, ErrUnknownService
				}
				return nil, err
			}
			detail.Cost = quote.Price
		}
		details = append(details, detail)
	}
	return details, nil
}

// snapshot loads the catalogs price resolution reads.
func (m *Manager) snapshot(ctx context.Context) (*pricing.Snapshot, error) {
	services, err := m.stores.Services.FindServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	cars, err := m.stores.Cars.FindCars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cars: %w", err)
	}
	groups, err := m.stores.Groups.FindCarGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load car groups: %w", err)
	}
	return &pricing.Snapshot{Services: services, Cars: cars, Groups: groups}, nil
}

func (m *Manager) publish(orderID string, status models.OrderStatus, masterIDs []string) {
	if m.events == nil {
		return
	}
	m.events.PublishOrderStatus(orderID, status, masterIDs)
}
