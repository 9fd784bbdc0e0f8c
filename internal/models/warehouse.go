package models

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTotalMismatch    = errors.New("transaction total does not match the sum of its lines")
	ErrUnknownTxType    = errors.New("unknown warehouse transaction type")
	ErrEmptyTransaction = errors.New("warehouse transaction has no lines")
)

// TransactionType classifies a warehouse ledger entry.
type TransactionType string

const (
	TxArrival    TransactionType = "arrival"
	TxSale       TransactionType = "sale"
	TxReturn     TransactionType = "return"
	TxAdjustment TransactionType = "adjustment"
)

// TransactionLine is one stock movement inside a warehouse transaction.
// PurchasePrice is the unit cost basis; SellingPrice, when present, is the
// recommended sale price recorded on arrival.
type TransactionLine struct {
	Name          string  `bson:"name" json:"name"`
	PartNumber    string  `bson:"part_number,omitempty" json:"part_number,omitempty"`
	Quantity      float64 `bson:"quantity" json:"quantity"`
	PurchasePrice float64 `bson:"purchase_price" json:"purchase_price"`
	SellingPrice  float64 `bson:"selling_price,omitempty" json:"selling_price,omitempty"`
}

// WarehouseTransaction is an immutable ledger entry. Transactions are never
// edited or deleted; corrections are recorded as new adjustment entries.
type WarehouseTransaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date        time.Time          `bson:"date" json:"date"`
	Type        TransactionType    `bson:"type" json:"type"`
	DocNumber   string             `bson:"doc_number,omitempty" json:"doc_number,omitempty"`
	Supplier    string             `bson:"supplier,omitempty" json:"supplier,omitempty"`
	Parts       []TransactionLine  `bson:"parts" json:"parts"`
	OrderID     string             `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
}

// LinesTotal returns the cost-basis sum of the transaction's lines.
func (t *WarehouseTransaction) LinesTotal() float64 {
	var sum float64
	for _, line := range t.Parts {
		sum += line.Quantity * line.PurchasePrice
	}
	return sum
}

// Validate checks the ledger reconciliation invariant: TotalAmount must equal
// the cost-basis sum of the lines.
func (t *WarehouseTransaction) Validate() error {
	switch t.Type {
	case TxArrival, TxSale, TxReturn, TxAdjustment:
	default:
		return ErrUnknownTxType
	}
	if len(t.Parts) == 0 {
		return ErrEmptyTransaction
	}
	if math.Abs(t.TotalAmount-t.LinesTotal()) > 1e-6 {
		return ErrTotalMismatch
	}
	return nil
}

// InventoryItem is a projected stock balance derived by replaying the
// transaction ledger. PurchasePrice is a moving average of the cost basis.
type InventoryItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	PartNumber    string             `bson:"part_number,omitempty" json:"part_number,omitempty"`
	Quantity      float64            `bson:"quantity" json:"quantity"`
	PurchasePrice float64            `bson:"purchase_price" json:"purchase_price"`
	SellingPrice  float64            `bson:"selling_price" json:"selling_price"`
	MinQuantity   float64            `bson:"min_quantity,omitempty" json:"min_quantity,omitempty"`
	LowStock      bool               `bson:"-" json:"low_stock"`
}
