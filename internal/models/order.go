package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of a service order. Any status may be
// set from any other; the lifecycle manager validates only that the value is
// known.
type OrderStatus string

const (
	StatusNew           OrderStatus = "new"
	StatusInProgress    OrderStatus = "in_progress"
	StatusAwaitingParts OrderStatus = "awaiting_parts"
	StatusCompleted     OrderStatus = "completed"
	StatusCancelled     OrderStatus = "cancelled"
)

// IsValidOrderStatus checks if a status value is known.
func IsValidOrderStatus(status OrderStatus) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusAwaitingParts, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ServiceOrder is a work order for repairing one vehicle.
type ServiceOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID        string             `bson:"client_id" json:"client_id"`
	CarID           string             `bson:"car_id" json:"car_id"`
	Date            time.Time          `bson:"date" json:"date"`
	EndDate         *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Time            string             `bson:"time" json:"time"`
	Mileage         int                `bson:"mileage,omitempty" json:"mileage,omitempty"`
	Reason          string             `bson:"reason" json:"reason"`
	Status          OrderStatus        `bson:"status" json:"status"`
	MasterIDs       []string           `bson:"master_ids" json:"master_ids"`
	IsStockDeducted bool               `bson:"is_stock_deducted" json:"is_stock_deducted"`
}

// OrderDetail is one labor line on an order. Cost is a snapshot of the unit
// price resolved when the line was added; it never re-resolves.
type OrderDetail struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID    string             `bson:"order_id" json:"order_id"`
	ServiceID  string             `bson:"service_id" json:"service_id"`
	CustomName string             `bson:"custom_name,omitempty" json:"custom_name,omitempty"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Cost       float64            `bson:"cost" json:"cost"`
}

// Total returns the line total.
func (d *OrderDetail) Total() float64 {
	return d.Cost * float64(d.Quantity)
}

// PartStatus is the procurement state of a materials line.
type PartStatus string

const (
	PartOrdered       PartStatus = "ordered"
	PartReceived      PartStatus = "received"
	PartReordered     PartStatus = "reordered"
	PartStockDeducted PartStatus = "stock_deducted"
)

// IsValidPartStatus checks if a part status value is known.
func IsValidPartStatus(status PartStatus) bool {
	switch status {
	case PartOrdered, PartReceived, PartReordered, PartStockDeducted:
		return true
	default:
		return false
	}
}

// Part is one materials line attached to an order. Price is the unit sale
// price charged to the client.
type Part struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID    string             `bson:"order_id" json:"order_id"`
	Name       string             `bson:"name" json:"name"`
	PartNumber string             `bson:"part_number,omitempty" json:"part_number,omitempty"`
	Supplier   string             `bson:"supplier,omitempty" json:"supplier,omitempty"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Status     PartStatus         `bson:"status" json:"status"`
}

// Total returns the line total at sale price.
func (p *Part) Total() float64 {
	return p.Price * float64(p.Quantity)
}
