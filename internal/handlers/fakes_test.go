package handlers

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/catalog"
	"perfume-backend/internal/images"
	"perfume-backend/internal/models"
	"perfume-backend/internal/orders"
	"perfume-backend/internal/reviews"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type fakeProducts struct {
	products map[primitive.ObjectID]models.Product
	created  []catalog.ProductInput
	deleted  []primitive.ObjectID
}

func newFakeProducts(list ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range list {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) ListActive(context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListAll(context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, apperror.NotFound("product not found with id: %s", id.Hex())
	}
	return p, nil
}

func (f *fakeProducts) ListPromotions(context.Context, models.Date) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Create(_ context.Context, in catalog.ProductInput) (models.Product, error) {
	f.created = append(f.created, in)
	p := models.Product{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
		ImageURLs: in.ImageURLs,
		Active:    true,
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, in catalog.ProductInput) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, apperror.NotFound("product not found with id: %s", id.Hex())
	}
	p.Name = in.Name
	f.products[id] = p
	return p, nil
}

func (f *fakeProducts) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	p, ok := f.products[id]
	if !ok {
		return apperror.NotFound("product not found with id: %s", id.Hex())
	}
	p.Active = false
	f.products[id] = p
	return nil
}

func (f *fakeProducts) HardDelete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id]; !ok {
		return apperror.NotFound("product not found with id: %s", id.Hex())
	}
	delete(f.products, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeOrders struct {
	createErr error
	created   []orders.CreateInput
	existing  map[primitive.ObjectID]models.Order
}

func (f *fakeOrders) CreateOrder(_ context.Context, in orders.CreateInput) (models.Order, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	return models.Order{
		ID:           primitive.NewObjectID(),
		CustomerName: in.CustomerName,
		TotalAmount:  models.MustMoney("100.00"),
		Status:       models.StatusPending,
		CreatedAt:    time.Now(),
	}, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	o, ok := f.existing[id]
	if !ok {
		return models.Order{}, apperror.NotFound("order not found with id: %s", id.Hex())
	}
	return o, nil
}

func (f *fakeOrders) GetAllOrders(context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.existing))
	for _, o := range f.existing {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) GetArchivedOrders(context.Context) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error) {
	o, ok := f.existing[id]
	if !ok {
		return models.Order{}, apperror.NotFound("order not found with id: %s", id.Hex())
	}
	o.Status = status
	f.existing[id] = o
	return o, nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, id primitive.ObjectID) (bool, error) {
	if _, ok := f.existing[id]; !ok {
		return false, nil
	}
	delete(f.existing, id)
	return true, nil
}

func (f *fakeOrders) GetWeeklySales(context.Context) ([]models.DailySales, error) {
	return []models.DailySales{}, nil
}

type fakeReviews struct {
	created []reviews.Input
	deleted []primitive.ObjectID
}

func (f *fakeReviews) Create(_ context.Context, in reviews.Input) (models.Review, error) {
	f.created = append(f.created, in)
	return models.Review{ID: primitive.NewObjectID(), ProductID: in.ProductID, CustomerName: in.CustomerName, Rating: in.Rating}, nil
}

func (f *fakeReviews) ListByProduct(context.Context, primitive.ObjectID) ([]models.Review, error) {
	return []models.Review{}, nil
}

func (f *fakeReviews) GetByID(_ context.Context, id primitive.ObjectID) (models.Review, error) {
	return models.Review{}, apperror.NotFound("review not found with id: %s", id.Hex())
}

func (f *fakeReviews) Update(_ context.Context, id primitive.ObjectID, in reviews.Input) (models.Review, error) {
	return models.Review{ID: id, CustomerName: in.CustomerName, Rating: in.Rating}, nil
}

func (f *fakeReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeReviews) Stats(context.Context, primitive.ObjectID) (models.ReviewStats, error) {
	return models.ReviewStats{}, nil
}

type fakeImages struct {
	stored map[string]images.Image
	saved  [][]images.File
}

func (f *fakeImages) Store(_ context.Context, files []images.File) []string {
	f.saved = append(f.saved, files)
	urls := make([]string, 0, len(files))
	for _, file := range files {
		urls = append(urls, "/api/images/"+file.Name)
	}
	return urls
}

func (f *fakeImages) Retrieve(_ context.Context, name string) (images.Image, error) {
	img, ok := f.stored[name]
	if !ok {
		return images.Image{}, apperror.NotFound("image not found: %s", name)
	}
	return img, nil
}

func (f *fakeImages) Delete(_ context.Context, name string) (bool, error) {
	if _, ok := f.stored[name]; !ok {
		return false, nil
	}
	delete(f.stored, name)
	return true, nil
}

type fakeAdmins map[string]models.Admin

func (f fakeAdmins) FindAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	a, ok := f[email]
	if !ok {
		return models.Admin{}, apperror.NotFound("admin not found")
	}
	return a, nil
}

var errDown = errors.New("connection refused")
