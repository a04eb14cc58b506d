package orders

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

// memDB keeps orders and products in memory. Its transactions snapshot both
// maps and restore them when the callback fails.
type memDB struct {
	mu       sync.Mutex
	orders   map[primitive.ObjectID]models.Order
	products map[primitive.ObjectID]models.Product
}

func newMemDB() *memDB {
	return &memDB{
		orders:   map[primitive.ObjectID]models.Order{},
		products: map[primitive.ObjectID]models.Product{},
	}
}

func cloneProduct(p models.Product) models.Product {
	if p.Stock != nil {
		stock := *p.Stock
		p.Stock = &stock
	}
	return p
}

func (db *memDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	orders := make(map[primitive.ObjectID]models.Order, len(db.orders))
	for k, v := range db.orders {
		orders[k] = v
	}
	products := make(map[primitive.ObjectID]models.Product, len(db.products))
	for k, v := range db.products {
		products[k] = cloneProduct(v)
	}
	db.mu.Unlock()

	if err := fn(ctx); err != nil {
		db.mu.Lock()
		db.orders = orders
		db.products = products
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) addProduct(p models.Product) models.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	db.products[p.ID] = cloneProduct(p)
	return p
}

func (db *memDB) stockOf(id primitive.ObjectID) *int {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok || p.Stock == nil {
		return nil
	}
	v := *p.Stock
	return &v
}

func (db *memDB) removeProduct(id primitive.ObjectID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.products, id)
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.orders)
}

func (db *memDB) putOrder(o models.Order) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	db.orders[o.ID] = o
}

func (db *memDB) InsertOrder(_ context.Context, o *models.Order) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	db.orders[o.ID] = *o
	return nil
}

func (db *memDB) FindOrder(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok {
		return models.Order{}, apperror.NotFound("order %s not found", id.Hex())
	}
	return o, nil
}

func (db *memDB) ReplaceOrder(_ context.Context, o models.Order) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.orders[o.ID]; !ok {
		return apperror.NotFound("order %s not found", o.ID.Hex())
	}
	db.orders[o.ID] = o
	return nil
}

func (db *memDB) DeleteOrder(_ context.Context, id primitive.ObjectID) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.orders[id]; !ok {
		return false, nil
	}
	delete(db.orders, id)
	return true, nil
}

func (db *memDB) listOrders(keep func(models.Order) bool) []models.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := []models.Order{}
	for _, o := range db.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (db *memDB) ListOrdersWithStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	return db.listOrders(func(o models.Order) bool { return o.Status == status }), nil
}

func (db *memDB) ListOrdersExcludingStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	return db.listOrders(func(o models.Order) bool { return o.Status != status }), nil
}

func (db *memDB) FindProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok {
		return models.Product{}, apperror.NotFound("product %s not found", id.Hex())
	}
	return cloneProduct(p), nil
}

func (db *memDB) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) (models.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok {
		return models.Product{}, apperror.NotFound("product %s not found", id.Hex())
	}
	if p.UsesVariantStock() || *p.Stock < quantity {
		available := 0
		if p.Stock != nil {
			available = *p.Stock
		}
		return models.Product{}, &apperror.InsufficientStockError{ProductID: id.Hex(), Available: available, Requested: quantity}
	}
	next := *p.Stock - quantity
	p.Stock = &next
	db.products[id] = p
	return cloneProduct(p), nil
}

func (db *memDB) RestoreStock(_ context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok || p.UsesVariantStock() {
		return false, nil
	}
	next := *p.Stock + quantity
	p.Stock = &next
	db.products[id] = p
	return true, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	created  []models.Order
	lowStock []models.Product
}

func (r *recordingPublisher) PublishOrderCreated(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, o)
}

func (r *recordingPublisher) PublishLowStock(p models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lowStock = append(r.lowStock, p)
}
