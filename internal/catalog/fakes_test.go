package catalog

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type memProducts struct {
	mu    sync.Mutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{byID: map[primitive.ObjectID]models.Product{}}
}

func (s *memProducts) ListProducts(_ context.Context, activeOnly bool) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Product{}
	for _, id := range s.order {
		p, ok := s.byID[id]
		if !ok || (activeOnly && !p.Active) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *memProducts) ListDiscounted(ctx context.Context) ([]models.Product, error) {
	all, _ := s.ListProducts(ctx, true)
	out := []models.Product{}
	for _, p := range all {
		if p.DiscountPercentage != nil && *p.DiscountPercentage > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memProducts) FindProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return models.Product{}, apperror.NotFound("product %s not found", id.Hex())
	}
	return p, nil
}

func (s *memProducts) InsertProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.order = append(s.order, p.ID)
	s.byID[p.ID] = *p
	return nil
}

func (s *memProducts) ReplaceProduct(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return apperror.NotFound("product %s not found", p.ID.Hex())
	}
	s.byID[p.ID] = p
	return nil
}

func (s *memProducts) SetProductActive(_ context.Context, id primitive.ObjectID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return apperror.NotFound("product %s not found", id.Hex())
	}
	p.Active = active
	s.byID[id] = p
	return nil
}

func (s *memProducts) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperror.NotFound("product %s not found", id.Hex())
	}
	delete(s.byID, id)
	return nil
}

func (s *memProducts) RenameCategory(_ context.Context, categoryID primitive.ObjectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.byID {
		if p.Category.ID == categoryID {
			p.Category.Name = name
			s.byID[id] = p
		}
	}
	return nil
}

func (s *memProducts) CountInCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.byID {
		if p.Category.ID == categoryID {
			n++
		}
	}
	return n, nil
}

type memCategories struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{byID: map[primitive.ObjectID]models.Category{}}
}

func (s *memCategories) ListCategories(context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Category{}
	for _, c := range s.byID {
		out = append(out, c)
	}
	return out, nil
}

func (s *memCategories) FindCategory(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return models.Category{}, apperror.NotFound("category %s not found", id.Hex())
	}
	return c, nil
}

func (s *memCategories) FindCategoryByName(_ context.Context, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, apperror.NotFound("category %s not found", name)
}

func (s *memCategories) InsertCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.byID[c.ID] = *c
	return nil
}

func (s *memCategories) ReplaceCategory(_ context.Context, c models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[c.ID]; !ok {
		return apperror.NotFound("category %s not found", c.ID.Hex())
	}
	s.byID[c.ID] = c
	return nil
}

func (s *memCategories) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperror.NotFound("category %s not found", id.Hex())
	}
	delete(s.byID, id)
	return nil
}

type recordingAlerter struct {
	mu       sync.Mutex
	products []models.Product
}

func (r *recordingAlerter) PublishLowStock(p models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, p)
}

func (r *recordingAlerter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}
