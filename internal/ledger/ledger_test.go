package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTxStore struct {
	txs []models.WarehouseTransaction
}

func (f *fakeTxStore) InsertTransaction(ctx context.Context, tx models.WarehouseTransaction) (string, error) {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	f.txs = append(f.txs, tx)
	return tx.ID.Hex(), nil
}

func (f *fakeTxStore) FindTransactions(ctx context.Context, limit int64) ([]models.WarehouseTransaction, error) {
	return f.txs, nil
}

func (f *fakeTxStore) FindTransactionsChronological(ctx context.Context) ([]models.WarehouseTransaction, error) {
	return f.txs, nil
}

func (f *fakeTxStore) FindSaleByOrderID(ctx context.Context, orderID string) (*models.WarehouseTransaction, error) {
	for i := range f.txs {
		if f.txs[i].Type == models.TxSale && f.txs[i].OrderID == orderID {
			return &f.txs[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func arrival(lines ...models.TransactionLine) models.WarehouseTransaction {
	tx := models.WarehouseTransaction{Type: models.TxArrival, Parts: lines}
	tx.TotalAmount = tx.LinesTotal()
	return tx
}

func TestRecordTransactionRejectsMismatchedTotal(t *testing.T) {
	store := &fakeTxStore{}
	l := New(store)

	tx := models.WarehouseTransaction{
		Type: models.TxArrival,
		Parts: []models.TransactionLine{
			{Name: "Oil filter", Quantity: 10, PurchasePrice: 5},
		},
		TotalAmount: 999,
	}

	_, err := l.RecordTransaction(context.Background(), tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTotalMismatch)
	assert.Empty(t, store.txs)
}

func TestRecordTransactionRejectsEmpty(t *testing.T) {
	l := New(&fakeTxStore{})

	_, err := l.RecordTransaction(context.Background(), models.WarehouseTransaction{Type: models.TxArrival})
	assert.ErrorIs(t, err, models.ErrEmptyTransaction)
}

func TestRecordTransactionAppends(t *testing.T) {
	store := &fakeTxStore{}
	l := New(store)

	id, err := l.RecordTransaction(context.Background(), arrival(
		models.TransactionLine{Name: "Brake pads", Quantity: 4, PurchasePrice: 25, SellingPrice: 40},
	))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, store.txs, 1)
}

func TestProjectWeightedAverage(t *testing.T) {
	txs := []models.WarehouseTransaction{
		arrival(models.TransactionLine{Name: "Oil filter", PartNumber: "OF-100", Quantity: 10, PurchasePrice: 5}),
		arrival(models.TransactionLine{Name: "Oil filter", PartNumber: "OF-100", Quantity: 10, PurchasePrice: 7}),
	}

	items := Project(txs)
	require.Len(t, items, 1)
	assert.Equal(t, 20.0, items[0].Quantity)
	assert.InDelta(t, 6.0, items[0].PurchasePrice, 1e-9)
}

func TestProjectSaleSubtracts(t *testing.T) {
	sale := models.WarehouseTransaction{
		Type:  models.TxSale,
		Parts: []models.TransactionLine{{Name: "Oil filter", PartNumber: "OF-100", Quantity: 3, PurchasePrice: 5}},
	}
	sale.TotalAmount = sale.LinesTotal()

	txs := []models.WarehouseTransaction{
		arrival(models.TransactionLine{Name: "Oil filter", PartNumber: "OF-100", Quantity: 10, PurchasePrice: 5}),
		sale,
	}

	items := Project(txs)
	require.Len(t, items, 1)
	assert.Equal(t, 7.0, items[0].Quantity)
	assert.Equal(t, 5.0, items[0].PurchasePrice)
}

func TestProjectAllowsNegativeStock(t *testing.T) {
	sale := models.WarehouseTransaction{
		Type:  models.TxSale,
		Parts: []models.TransactionLine{{Name: "Spark plug", Quantity: 4, PurchasePrice: 3}},
	}
	sale.TotalAmount = sale.LinesTotal()

	items := Project([]models.WarehouseTransaction{sale})
	require.Len(t, items, 1)
	assert.Equal(t, -4.0, items[0].Quantity)
	assert.True(t, items[0].LowStock)
}

func TestProjectReturnBlendsLikeArrival(t *testing.T) {
	ret := models.WarehouseTransaction{
		Type:  models.TxReturn,
		Parts: []models.TransactionLine{{Name: "Wiper blade", Quantity: 2, PurchasePrice: 8}},
	}
	ret.TotalAmount = ret.LinesTotal()

	txs := []models.WarehouseTransaction{
		arrival(models.TransactionLine{Name: "Wiper blade", Quantity: 2, PurchasePrice: 4}),
		ret,
	}

	items := Project(txs)
	require.Len(t, items, 1)
	assert.Equal(t, 4.0, items[0].Quantity)
	assert.InDelta(t, 6.0, items[0].PurchasePrice, 1e-9)
}

func TestProjectSignedAdjustment(t *testing.T) {
	down := models.WarehouseTransaction{
		Type:  models.TxAdjustment,
		Parts: []models.TransactionLine{{Name: "Coolant", Quantity: -2, PurchasePrice: 10}},
	}
	down.TotalAmount = down.LinesTotal()

	txs := []models.WarehouseTransaction{
		arrival(models.TransactionLine{Name: "Coolant", Quantity: 5, PurchasePrice: 10}),
		down,
	}

	items := Project(txs)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.Equal(t, 10.0, items[0].PurchasePrice)
}

func TestProjectPriceReplacesAfterNegativeStock(t *testing.T) {
	sale := models.WarehouseTransaction{
		Type:  models.TxSale,
		Parts: []models.TransactionLine{{Name: "Belt", Quantity: 2, PurchasePrice: 0}},
	}
	sale.TotalAmount = sale.LinesTotal()

	txs := []models.WarehouseTransaction{
		sale,
		arrival(models.TransactionLine{Name: "Belt", Quantity: 5, PurchasePrice: 12}),
	}

	items := Project(txs)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.Equal(t, 12.0, items[0].PurchasePrice)
}

func TestProjectNameKeyIsCaseFolded(t *testing.T) {
	txs := []models.WarehouseTransaction{
		arrival(models.TransactionLine{Name: "Oil Filter", Quantity: 1, PurchasePrice: 5}),
		arrival(models.TransactionLine{Name: "oil filter", Quantity: 2, PurchasePrice: 5}),
	}

	items := Project(txs)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].Quantity)
}

func TestProjectLowStockFlag(t *testing.T) {
	txs := []models.WarehouseTransaction{
		arrival(models.TransactionLine{Name: "Cabin filter", Quantity: 1, PurchasePrice: 9}),
		arrival(models.TransactionLine{Name: "Air filter", Quantity: 8, PurchasePrice: 6}),
	}

	items := Project(txs)
	require.Len(t, items, 2)
	byName := map[string]models.InventoryItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	assert.True(t, byName["Cabin filter"].LowStock)
	assert.False(t, byName["Air filter"].LowStock)
}
