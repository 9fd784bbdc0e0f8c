package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
	"github.com/sirupsen/logrus"
)

// defaultMinQuantity is the low-stock threshold applied to items that never
// had an explicit minimum configured.
const defaultMinQuantity = 1

// Ledger is the append-only warehouse journal. Stock on hand is never stored;
// it is a projection folded from the full transaction history, so a replay of
// the journal always reproduces the current inventory.
type Ledger struct {
	txs db.TransactionCollection
}

// New builds a Ledger over the given transaction store.
func New(txs db.TransactionCollection) *Ledger {
	return &Ledger{txs: txs}
}

// RecordTransaction validates and appends one journal entry. Entries whose
// stated total does not reconcile with the sum of their lines are rejected
// before they reach the store.
func (l *Ledger) RecordTransaction(ctx context.Context, tx models.WarehouseTransaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("invalid warehouse transaction: %w", err)
	}
	id, err := l.txs.InsertTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to record transaction: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"transaction_id": id,
		"type":           tx.Type,
		"lines":          len(tx.Parts),
		"total":          tx.TotalAmount,
	}).Info("Warehouse transaction recorded")
	return id, nil
}

// Transactions returns recent journal entries, newest first.
func (l *Ledger) Transactions(ctx context.Context, limit int64) ([]models.WarehouseTransaction, error) {
	return l.txs.FindTransactions(ctx, limit)
}

// ProjectStock reads the full journal and folds it into current stock levels.
func (l *Ledger) ProjectStock(ctx context.Context) ([]models.InventoryItem, error) {
	txs, err := l.txs.FindTransactionsChronological(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction history: %w", err)
	}
	return Project(txs), nil
}

// Project folds a chronological journal into per-item stock levels. Arrivals
// and returns add quantity and blend the purchase price as a moving weighted
// average; sales subtract quantity; adjustments carry a signed quantity.
// Quantities may go negative, which surfaces bookkeeping gaps instead of
// hiding them. Items are keyed by part number when present, otherwise by
// case-folded name.
func Project(txs []models.WarehouseTransaction) []models.InventoryItem {
	items := make(map[string]*models.InventoryItem)

	for _, tx := range txs {
		for _, line := range tx.Parts {
			key := itemKey(line)
			item, ok := items[key]
			if !ok {
				item = &models.InventoryItem{Name: line.Name, PartNumber: line.PartNumber}
				items[key] = item
			}

			switch tx.Type {
			case models.TxArrival, models.TxReturn:
				blendIn(item, line.Quantity, line.PurchasePrice)
			case models.TxSale:
				item.Quantity -= line.Quantity
			case models.TxAdjustment:
				if line.Quantity > 0 {
					blendIn(item, line.Quantity, line.PurchasePrice)
				} else {
					item.Quantity += line.Quantity
				}
			}
			if line.SellingPrice > 0 {
				item.SellingPrice = line.SellingPrice
			}
		}
	}

	result := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		min := item.MinQuantity
		if min <= 0 {
			min = defaultMinQuantity
		}
		item.LowStock = item.Quantity <= min
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// blendIn adds incoming quantity at the given purchase price, updating the
// moving weighted average. When the running quantity is zero or negative the
// incoming price replaces the average outright rather than blending with a
// meaningless basis.
func blendIn(item *models.InventoryItem, qty, price float64) {
	if qty <= 0 {
		item.Quantity += qty
		return
	}
	if item.Quantity <= 0 {
		item.Quantity += qty
		item.PurchasePrice = price
		return
	}
	total := item.Quantity*item.PurchasePrice + qty*price
	item.Quantity += qty
	item.PurchasePrice = total / item.Quantity
}

func itemKey(line models.TransactionLine) string {
	if line.PartNumber != "" {
		return line.PartNumber
	}
	return strings.ToLower(line.Name)
}
