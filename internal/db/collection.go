package db

import (
	"context"

	"github.com/remserv/workshop/internal/models"
)

// OrderCollection defines the interface for service order operations.
// Multi-record writes are atomic: either every record commits or none does.
type OrderCollection interface {
	InsertOrderWithDetails(ctx context.Context, order models.ServiceOrder, details []models.OrderDetail) (string, error)
	FindOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error)
	FindOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.ServiceOrder, error)
	FindOrders(ctx context.Context, limit int64) ([]models.ServiceOrder, error)
	UpdateOrderFields(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteOrder(ctx context.Context, id string) error
	// CompleteWithDeduction writes the stock-deduction ledger entry and the
	// order field updates (status, is_stock_deducted, end_date) as one batch.
	// The is_stock_deducted flag is the single commit point: it is only
	// observable once every ledger line has committed.
	CompleteWithDeduction(ctx context.Context, id string, fields map[string]interface{}, tx models.WarehouseTransaction) error
}

// DetailCollection defines the interface for order detail (labor line) operations.
type DetailCollection interface {
	InsertDetails(ctx context.Context, details []models.OrderDetail) error
	FindDetailsByOrder(ctx context.Context, orderID string) ([]models.OrderDetail, error)
	FindAllDetails(ctx context.Context) ([]models.OrderDetail, error)
	DeleteDetail(ctx context.Context, id string) error
}

// PartCollection defines the interface for order part (materials line) operations.
type PartCollection interface {
	InsertParts(ctx context.Context, parts []models.Part) error
	FindPartsByOrder(ctx context.Context, orderID string) ([]models.Part, error)
	FindAllParts(ctx context.Context) ([]models.Part, error)
	UpdatePartStatus(ctx context.Context, id string, status models.PartStatus) error
	DeletePart(ctx context.Context, id string) error
}

// TransactionCollection defines the interface for the append-only warehouse
// ledger. Entries are never updated or deleted.
type TransactionCollection interface {
	InsertTransaction(ctx context.Context, tx models.WarehouseTransaction) (string, error)
	FindTransactions(ctx context.Context, limit int64) ([]models.WarehouseTransaction, error)
	FindTransactionsChronological(ctx context.Context) ([]models.WarehouseTransaction, error)
	FindSaleByOrderID(ctx context.Context, orderID string) (*models.WarehouseTransaction, error)
}

// ServiceCollection defines the interface for price list operations.
type ServiceCollection interface {
	InsertService(ctx context.Context, service models.Service) (string, error)
	FindServices(ctx context.Context) ([]models.Service, error)
	FindServiceByID(ctx context.Context, id string) (*models.Service, error)
	UpdateService(ctx context.Context, id string, service models.Service) error
	DeleteService(ctx context.Context, id string) error
}

// CarCollection defines the interface for car catalog operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) (string, error)
	FindCars(ctx context.Context) ([]models.Car, error)
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	UpdateCar(ctx context.Context, id string, car models.Car) error
	DeleteCar(ctx context.Context, id string) error
}

// CarGroupCollection defines the interface for car group catalog operations.
type CarGroupCollection interface {
	InsertCarGroup(ctx context.Context, group models.CarGroup) (string, error)
	FindCarGroups(ctx context.Context) ([]models.CarGroup, error)
	UpdateCarGroup(ctx context.Context, id string, group models.CarGroup) error
	DeleteCarGroup(ctx context.Context, id string) error
}

// MasterCollection defines the interface for master catalog operations.
type MasterCollection interface {
	InsertMaster(ctx context.Context, master models.Master) (string, error)
	FindMasters(ctx context.Context) ([]models.Master, error)
	FindMasterByID(ctx context.Context, id string) (*models.Master, error)
	UpdateMaster(ctx context.Context, id string, master models.Master) error
	DeleteMaster(ctx context.Context, id string) error
}

// ClientCollection defines the interface for client catalog operations.
type ClientCollection interface {
	InsertClient(ctx context.Context, client models.Client) (string, error)
	FindClients(ctx context.Context) ([]models.Client, error)
	FindClientByID(ctx context.Context, id string) (*models.Client, error)
	UpdateClient(ctx context.Context, id string, client models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}
