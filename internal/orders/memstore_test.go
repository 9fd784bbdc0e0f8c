package orders

import (
	"context"
	"time"

	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory implementation of every collection interface the
// lifecycle manager touches. Batch writes commit all records together, which
// mirrors the transactional behavior of the real store.
type memStore struct {
	orders  map[string]models.ServiceOrder
	details []models.OrderDetail
	parts   []models.Part
	txs     []models.WarehouseTransaction

	services []models.Service
	cars     []models.Car
	groups   []models.CarGroup
	clients  []models.Client
	masters  []models.Master
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[string]models.ServiceOrder)}
}

func (s *memStore) stores() Stores {
	return Stores{
		Orders:   s,
		Details:  s,
		Parts:    s,
		Ledger:   s,
		Services: s,
		Cars:     s,
		Groups:   s,
		Clients:  s,
		Masters:  s,
	}
}

// OrderCollection

func (s *memStore) InsertOrderWithDetails(ctx context.Context, order models.ServiceOrder, details []models.OrderDetail) (string, error) {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	id := order.ID.Hex()
	s.orders[id] = order
	for _, d := range details {
		d.ID = primitive.NewObjectID()
		d.OrderID = id
		s.details = append(s.details, d)
	}
	return id, nil
}

func (s *memStore) FindOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &order, nil
}

func (s *memStore) FindOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.ServiceOrder, error) {
	var out []models.ServiceOrder
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memStore) FindOrders(ctx context.Context, limit int64) ([]models.ServiceOrder, error) {
	var out []models.ServiceOrder
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) UpdateOrderFields(ctx context.Context, id string, fields map[string]interface{}) error {
	order, ok := s.orders[id]
	if !ok {
		return db.ErrNotFound
	}
	applyFields(&order, fields)
	s.orders[id] = order
	return nil
}

func (s *memStore) DeleteOrder(ctx context.Context, id string) error {
	if _, ok := s.orders[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *memStore) CompleteWithDeduction(ctx context.Context, id string, fields map[string]interface{}, tx models.WarehouseTransaction) error {
	order, ok := s.orders[id]
	if !ok {
		return db.ErrNotFound
	}
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	s.txs = append(s.txs, tx)
	applyFields(&order, fields)
	s.orders[id] = order
	return nil
}

func applyFields(order *models.ServiceOrder, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			order.Status = v.(models.OrderStatus)
		case "end_date":
			t := v.(time.Time)
			order.EndDate = &t
		case "is_stock_deducted":
			order.IsStockDeducted = v.(bool)
		}
	}
}

// DetailCollection

func (s *memStore) InsertDetails(ctx context.Context, details []models.OrderDetail) error {
	for _, d := range details {
		if d.ID.IsZero() {
			d.ID = primitive.NewObjectID()
		}
		s.details = append(s.details, d)
	}
	return nil
}

func (s *memStore) FindDetailsByOrder(ctx context.Context, orderID string) ([]models.OrderDetail, error) {
	var out []models.OrderDetail
	for _, d := range s.details {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) FindAllDetails(ctx context.Context) ([]models.OrderDetail, error) {
	return s.details, nil
}

func (s *memStore) DeleteDetail(ctx context.Context, id string) error {
	for i, d := range s.details {
		if d.ID.Hex() == id {
			s.details = append(s.details[:i], s.details[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

// PartCollection

func (s *memStore) InsertParts(ctx context.Context, parts []models.Part) error {
	for _, p := range parts {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		s.parts = append(s.parts, p)
	}
	return nil
}

func (s *memStore) FindPartsByOrder(ctx context.Context, orderID string) ([]models.Part, error) {
	var out []models.Part
	for _, p := range s.parts {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) FindAllParts(ctx context.Context) ([]models.Part, error) {
	return s.parts, nil
}

func (s *memStore) UpdatePartStatus(ctx context.Context, id string, status models.PartStatus) error {
	for i := range s.parts {
		if s.parts[i].ID.Hex() == id {
			s.parts[i].Status = status
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *memStore) DeletePart(ctx context.Context, id string) error {
	for i, p := range s.parts {
		if p.ID.Hex() == id {
			s.parts = append(s.parts[:i], s.parts[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

// TransactionCollection

func (s *memStore) InsertTransaction(ctx context.Context, tx models.WarehouseTransaction) (string, error) {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	s.txs = append(s.txs, tx)
	return tx.ID.Hex(), nil
}

func (s *memStore) FindTransactions(ctx context.Context, limit int64) ([]models.WarehouseTransaction, error) {
	return s.txs, nil
}

func (s *memStore) FindTransactionsChronological(ctx context.Context) ([]models.WarehouseTransaction, error) {
	return s.txs, nil
}

func (s *memStore) FindSaleByOrderID(ctx context.Context, orderID string) (*models.WarehouseTransaction, error) {
	for i := range s.txs {
		if s.txs[i].Type == models.TxSale && s.txs[i].OrderID == orderID {
			return &s.txs[i], nil
		}
	}
	return nil, db.ErrNotFound
}

// ServiceCollection

func (s *memStore) InsertService(ctx context.Context, service models.Service) (string, error) {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	s.services = append(s.services, service)
	return service.ID.Hex(), nil
}

func (s *memStore) FindServices(ctx context.Context) ([]models.Service, error) {
	return s.services, nil
}

func (s *memStore) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	for i := range s.services {
		if s.services[i].ID.Hex() == id {
			return &s.services[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) UpdateService(ctx context.Context, id string, service models.Service) error {
	return nil
}

func (s *memStore) DeleteService(ctx context.Context, id string) error {
	return nil
}

// CarCollection

func (s *memStore) InsertCar(ctx context.Context, car models.Car) (string, error) {
	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	s.cars = append(s.cars, car)
	return car.ID.Hex(), nil
}

func (s *memStore) FindCars(ctx context.Context) ([]models.Car, error) {
	return s.cars, nil
}

func (s *memStore) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	for i := range s.cars {
		if s.cars[i].ID.Hex() == id {
			return &s.cars[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) UpdateCar(ctx context.Context, id string, car models.Car) error {
	return nil
}

func (s *memStore) DeleteCar(ctx context.Context, id string) error {
	return nil
}

// CarGroupCollection

func (s *memStore) InsertCarGroup(ctx context.Context, group models.CarGroup) (string, error) {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	s.groups = append(s.groups, group)
	return group.ID.Hex(), nil
}

func (s *memStore) FindCarGroups(ctx context.Context) ([]models.CarGroup, error) {
	return s.groups, nil
}

func (s *memStore) UpdateCarGroup(ctx context.Context, id string, group models.CarGroup) error {
	return nil
}

func (s *memStore) DeleteCarGroup(ctx context.Context, id string) error {
	return nil
}

// ClientCollection

func (s *memStore) InsertClient(ctx context.Context, client models.Client) (string, error) {
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	s.clients = append(s.clients, client)
	return client.ID.Hex(), nil
}

func (s *memStore) FindClients(ctx context.Context) ([]models.Client, error) {
	return s.clients, nil
}

func (s *memStore) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	for i := range s.clients {
		if s.clients[i].ID.Hex() == id {
			return &s.clients[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) UpdateClient(ctx context.Context, id string, client models.Client) error {
	return nil
}

func (s *memStore) DeleteClient(ctx context.Context, id string) error {
	return nil
}

// MasterCollection

func (s *memStore) InsertMaster(ctx context.Context, master models.Master) (string, error) {
	if master.ID.IsZero() {
		master.ID = primitive.NewObjectID()
	}
	s.masters = append(s.masters, master)
	return master.ID.Hex(), nil
}

func (s *memStore) FindMasters(ctx context.Context) ([]models.Master, error) {
	return s.masters, nil
}

func (s *memStore) FindMasterByID(ctx context.Context, id string) (*models.Master, error) {
	for i := range s.masters {
		if s.masters[i].ID.Hex() == id {
			return &s.masters[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) UpdateMaster(ctx context.Context, id string, master models.Master) error {
	return nil
}

func (s *memStore) DeleteMaster(ctx context.Context, id string) error {
	return nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []models.OrderStatus
}

func (r *recordingPublisher) PublishOrderStatus(orderID string, status models.OrderStatus, masterIDs []string) {
	r.events = append(r.events, status)
}
